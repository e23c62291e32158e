package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// healthPath is only logged when the check fails.
const healthPath = "/health"

// Logger returns a gin middleware that writes one access record per request.
//
// Records carry the matched route, the response size and, for requests that
// passed Auth, the user id. 5xx responses log at Error, 4xx at Warn and the
// rest at Info.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()
		// Auth adds user_id to the request context; the record sets it once.
		ctx := c.Request.Context()

		c.Next()

		status := c.Writer.Status()
		if c.Request.URL.Path == healthPath && status < 400 {
			return
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Int("bytes", max(c.Writer.Size(), 0)),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if id := CurrentUserID(c); id != 0 {
			attrs = append(attrs, slog.Uint64("user_id", uint64(id)))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(ctx, level, "request", attrs...)
	}
}
