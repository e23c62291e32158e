package media

import "github.com/gin-gonic/gin"

// Permission guards every media route.
const Permission = "media.manage"

// MediaModule implements the app.Module interface for media files.
type MediaModule struct {
	handler *MediaHandler
}

// NewModule creates a new MediaModule. Panics if h is nil.
func NewModule(h *MediaHandler) *MediaModule {
	if h == nil {
		panic("media.NewModule: handler must not be nil")
	}
	return &MediaModule{handler: h}
}

// Permission returns the permission required for the module's routes.
func (m *MediaModule) Permission() string { return Permission }

// RegisterRoutes registers media API routes.
func (m *MediaModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/media", m.handler.Upload)
	api.DELETE("/media", m.handler.Delete)
}
