package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

const userIDContextKey = "user_id"

// Authenticator resolves a bearer token to the id of an active user. It
// fails for bad tokens and for users that were deleted or deactivated after
// the token was issued.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (uint, error)
}

// PermissionChecker answers whether a user holds a named permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, permission string) (bool, error)
}

// Auth returns a gin middleware that requires a valid "Authorization: Bearer"
// token. The authenticated user id is stored in the gin.Context (see
// CurrentUserID) and attached to the request's log attributes.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := authn.Authenticate(c.Request.Context(), raw)
		if err != nil || userID == 0 {
			abortJSON(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		c.Set(userIDContextKey, userID)
		ctx := logger.WithContextAttrs(c.Request.Context(), slog.Uint64("user_id", uint64(userID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission returns a gin middleware that answers 403 unless the
// current user holds permission. It must run after Auth.
func RequirePermission(checker PermissionChecker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			abortJSON(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		allowed, err := checker.HasPermission(c.Request.Context(), userID, permission)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "permission check failed",
				slog.String("permission", permission),
				slog.String("error", err.Error()),
			)
			abortJSON(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !allowed {
			abortJSON(c, http.StatusForbidden, "forbidden")
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 when the request
// passed through no Auth middleware.
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get(userIDContextKey); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func bearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"message": message,
		"data":    nil,
	})
}
