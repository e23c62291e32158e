package post

import "github.com/gin-gonic/gin"

// Permission guards every post route.
const Permission = "posts.manage"

// PostModule implements the app.Module interface for posts.
type PostModule struct {
	handler *PostHandler
}

// NewModule creates a new PostModule. Panics if h is nil.
func NewModule(h *PostHandler) *PostModule {
	if h == nil {
		panic("post.NewModule: handler must not be nil")
	}
	return &PostModule{handler: h}
}

// Permission returns the permission required for the module's routes.
func (m *PostModule) Permission() string { return Permission }

// RegisterRoutes registers post API routes.
func (m *PostModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/posts", m.handler.Create)
	api.POST("/posts/bulk", m.handler.Bulk)
	api.GET("/posts", m.handler.List)
	api.GET("/posts/:id", m.handler.Get)
	api.PUT("/posts/:id", m.handler.Update)
	api.DELETE("/posts/:id", m.handler.Delete)
}
