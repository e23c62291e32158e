package page

import "github.com/gin-gonic/gin"

// Permission guards every page route.
const Permission = "pages.manage"

// PageModule implements the app.Module interface for pages.
type PageModule struct {
	handler *PageHandler
}

// NewModule creates a new PageModule. Panics if h is nil.
func NewModule(h *PageHandler) *PageModule {
	if h == nil {
		panic("page.NewModule: handler must not be nil")
	}
	return &PageModule{handler: h}
}

// Permission returns the permission required for the module's routes.
func (m *PageModule) Permission() string { return Permission }

// RegisterRoutes registers page API routes.
func (m *PageModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/pages", m.handler.Create)
	api.POST("/pages/bulk", m.handler.Bulk)
	api.GET("/pages", m.handler.List)
	api.GET("/pages/:id", m.handler.Get)
	api.PUT("/pages/:id", m.handler.Update)
	api.DELETE("/pages/:id", m.handler.Delete)
}
