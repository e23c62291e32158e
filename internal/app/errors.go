package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/pkg"
)

// renderError aborts the request with the JSON error envelope. Empty messages
// fall back to the HTTP status text.
func renderError(c *gin.Context, code int, message string) {
	if message == "" {
		message = defaultStatusText(code)
	}
	c.AbortWithStatusJSON(code, pkg.Response{Code: code, Message: message})
}

// defaultStatusText returns a short human-readable label for common error codes.
func defaultStatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusRequestTimeout:
		return "request timeout"
	case http.StatusTooManyRequests:
		return "too many requests"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return "error"
	}
}
