package page

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/upload"
)

// PageHandler handles REST API requests for pages.
type PageHandler struct {
	svc PageService
}

// NewPageHandler creates a new PageHandler with the given service.
func NewPageHandler(svc PageService) *PageHandler {
	return &PageHandler{svc: svc}
}

func bindPage(c *gin.Context) (PageRequest, upload.Change, bool) {
	var req PageRequest
	if !pkg.BindAndValidate(c, &req) {
		return req, upload.Change{}, false
	}
	thumbnail, err := pkg.ImageChange(c, "thumbnail")
	if err != nil {
		pkg.Error(c, err)
		return req, upload.Change{}, false
	}
	return req, thumbnail, true
}

// Create handles POST /api/v1/pages.
func (h *PageHandler) Create(c *gin.Context) {
	req, thumbnail, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.svc.CreatePage(c.Request.Context(), req, thumbnail, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, page)
}

// Get handles GET /api/v1/pages/:id.
func (h *PageHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	page, err := h.svc.GetPage(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, page)
}

// List handles GET /api/v1/pages.
func (h *PageHandler) List(c *gin.Context) {
	result, err := h.svc.ListPages(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/pages/:id.
func (h *PageHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	req, thumbnail, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.svc.UpdatePage(c.Request.Context(), id, req, thumbnail, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, page)
}

// Delete handles DELETE /api/v1/pages/:id.
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.DeletePage(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Bulk handles POST /api/v1/pages/bulk.
func (h *PageHandler) Bulk(c *gin.Context) {
	var req pkg.BulkRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	result, err := h.svc.Bulk(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, result)
}
