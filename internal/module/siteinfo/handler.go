package siteinfo

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/upload"
)

// SiteInfoHandler handles REST API requests for site settings.
type SiteInfoHandler struct {
	svc SiteInfoService
}

// NewSiteInfoHandler creates a new SiteInfoHandler with the given service.
func NewSiteInfoHandler(svc SiteInfoService) *SiteInfoHandler {
	return &SiteInfoHandler{svc: svc}
}

// Get handles GET /api/v1/site-info.
func (h *SiteInfoHandler) Get(c *gin.Context) {
	info, err := h.svc.Get(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, info)
}

// Update handles POST /api/v1/site-info. Text settings are form fields;
// "<image>_file" replaces an image and "<image>" sent empty clears it.
func (h *SiteInfoHandler) Update(c *gin.Context) {
	in := UpdateInput{Files: map[string]upload.Source{}}
	if !pkg.BindAndValidate(c, &in.Fields) {
		return
	}
	for _, field := range ImageFields {
		ch, err := pkg.ImageChange(c, field.Column)
		if err != nil {
			pkg.Error(c, err)
			return
		}
		switch {
		case ch.File != nil:
			in.Files[field.Column] = ch.File
		case ch.Clear:
			in.Cleared = append(in.Cleared, field.Column)
		}
	}

	info, err := h.svc.Update(c.Request.Context(), in, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, info)
}
