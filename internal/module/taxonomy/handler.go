package taxonomy

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
)

// Handler handles REST API requests for categories and tags.
type Handler struct {
	categories CategoryService
	tags       TagService
}

// NewHandler creates a new taxonomy Handler.
func NewHandler(categories CategoryService, tags TagService) *Handler {
	return &Handler{categories: categories, tags: tags}
}

func created(c *gin.Context, data any) {
	pkg.Created(c, data)
}

// CreateCategory handles POST /api/v1/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	category, err := h.categories.CreateCategory(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	created(c, category)
}

// GetCategory handles GET /api/v1/categories/:id.
func (h *Handler) GetCategory(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, category)
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	result, err := h.categories.ListCategories(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// UpdateCategory handles PUT /api/v1/categories/:id.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req CategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	category, err := h.categories.UpdateCategory(c.Request.Context(), id, req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.categories.DeleteCategory(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// BulkCategories handles POST /api/v1/categories/bulk.
func (h *Handler) BulkCategories(c *gin.Context) {
	var req pkg.BulkRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	result, err := h.categories.Bulk(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, result)
}

// CreateTag handles POST /api/v1/tags.
func (h *Handler) CreateTag(c *gin.Context) {
	var req TagRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	tag, err := h.tags.CreateTag(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	created(c, tag)
}

// GetTag handles GET /api/v1/tags/:id.
func (h *Handler) GetTag(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	tag, err := h.tags.GetTag(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, tag)
}

// ListTags handles GET /api/v1/tags.
func (h *Handler) ListTags(c *gin.Context) {
	result, err := h.tags.ListTags(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// UpdateTag handles PUT /api/v1/tags/:id.
func (h *Handler) UpdateTag(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req TagRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	tag, err := h.tags.UpdateTag(c.Request.Context(), id, req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, tag)
}

// DeleteTag handles DELETE /api/v1/tags/:id.
func (h *Handler) DeleteTag(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.tags.DeleteTag(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// BulkTags handles POST /api/v1/tags/bulk.
func (h *Handler) BulkTags(c *gin.Context) {
	var req pkg.BulkRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	result, err := h.tags.Bulk(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, result)
}
