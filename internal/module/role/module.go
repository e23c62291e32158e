package role

import "github.com/gin-gonic/gin"

// Permission guards every role route.
const Permission = "roles.manage"

// RoleModule implements the app.Module interface for roles and permissions.
type RoleModule struct {
	handler *RoleHandler
}

// NewModule creates a new RoleModule. Panics if h is nil.
func NewModule(h *RoleHandler) *RoleModule {
	if h == nil {
		panic("role.NewModule: handler must not be nil")
	}
	return &RoleModule{handler: h}
}

// Permission returns the permission required for the module's routes.
func (m *RoleModule) Permission() string { return Permission }

// RegisterRoutes registers role API routes.
func (m *RoleModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/permissions", m.handler.Permissions)
	api.POST("/roles", m.handler.Create)
	api.POST("/roles/bulk", m.handler.Bulk)
	api.GET("/roles", m.handler.List)
	api.GET("/roles/:id", m.handler.Get)
	api.PUT("/roles/:id", m.handler.Update)
	api.DELETE("/roles/:id", m.handler.Delete)
}
