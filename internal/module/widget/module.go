package widget

import "github.com/gin-gonic/gin"

// Permission guards every widget route.
const Permission = "widgets.manage"

// WidgetModule implements the app.Module interface for widgets.
type WidgetModule struct {
	handler *WidgetHandler
}

// NewModule creates a new WidgetModule. Panics if h is nil.
func NewModule(h *WidgetHandler) *WidgetModule {
	if h == nil {
		panic("widget.NewModule: handler must not be nil")
	}
	return &WidgetModule{handler: h}
}

// Permission returns the permission required for the module's routes.
func (m *WidgetModule) Permission() string { return Permission }

// RegisterRoutes registers widget API routes.
func (m *WidgetModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/widgets", m.handler.Create)
	api.POST("/widgets/bulk", m.handler.Bulk)
	api.GET("/widgets", m.handler.List)
	api.GET("/widgets/:id", m.handler.Get)
	api.PUT("/widgets/:id", m.handler.Update)
	api.DELETE("/widgets/:id", m.handler.Delete)
}
