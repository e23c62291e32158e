package taxonomy

import "github.com/gin-gonic/gin"

// Permission guards every taxonomy route.
const Permission = "taxonomies.manage"

// Module implements the app.Module interface for categories and tags.
type Module struct {
	handler *Handler
}

// NewModule creates a new taxonomy Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("taxonomy.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// Permission returns the permission required for the module's routes.
func (m *Module) Permission() string { return Permission }

// RegisterRoutes registers category and tag API routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/categories", m.handler.CreateCategory)
	api.POST("/categories/bulk", m.handler.BulkCategories)
	api.GET("/categories", m.handler.ListCategories)
	api.GET("/categories/:id", m.handler.GetCategory)
	api.PUT("/categories/:id", m.handler.UpdateCategory)
	api.DELETE("/categories/:id", m.handler.DeleteCategory)

	api.POST("/tags", m.handler.CreateTag)
	api.POST("/tags/bulk", m.handler.BulkTags)
	api.GET("/tags", m.handler.ListTags)
	api.GET("/tags/:id", m.handler.GetTag)
	api.PUT("/tags/:id", m.handler.UpdateTag)
	api.DELETE("/tags/:id", m.handler.DeleteTag)
}
