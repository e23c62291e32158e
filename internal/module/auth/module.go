package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for the auth domain.
type AuthModule struct {
	handler *AuthHandler
}

// NewModule creates a new AuthModule with the given handler.
// Panics if h is nil.
func NewModule(h *AuthHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &AuthModule{handler: h}
}

// Permission is empty: any authenticated user may use the protected routes.
func (m *AuthModule) Permission() string { return "" }

// RegisterPublicRoutes registers the login route.
func (m *AuthModule) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/auth/login", m.handler.Login)
}

// RegisterRoutes registers the routes acting on the current user.
func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.GET("/me", m.handler.Me)
	auth.PUT("/password", m.handler.ChangePassword)
}
