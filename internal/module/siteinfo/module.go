package siteinfo

import "github.com/gin-gonic/gin"

// Permission guards site settings updates.
const Permission = "settings.manage"

// SiteInfoModule implements the app.Module interface for site settings.
// Reading the settings is public.
type SiteInfoModule struct {
	handler *SiteInfoHandler
}

// NewModule creates a new SiteInfoModule. Panics if h is nil.
func NewModule(h *SiteInfoHandler) *SiteInfoModule {
	if h == nil {
		panic("siteinfo.NewModule: handler must not be nil")
	}
	return &SiteInfoModule{handler: h}
}

// Permission returns the permission required for the protected routes.
func (m *SiteInfoModule) Permission() string { return Permission }

// RegisterPublicRoutes registers routes served without authentication.
func (m *SiteInfoModule) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/site-info", m.handler.Get)
}

// RegisterRoutes registers the protected site settings routes.
func (m *SiteInfoModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/site-info", m.handler.Update)
}
