package widget

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
)

// WidgetHandler handles REST API requests for widgets.
type WidgetHandler struct {
	svc WidgetService
}

// NewWidgetHandler creates a new WidgetHandler with the given service.
func NewWidgetHandler(svc WidgetService) *WidgetHandler {
	return &WidgetHandler{svc: svc}
}

// Create handles POST /api/v1/widgets.
func (h *WidgetHandler) Create(c *gin.Context) {
	var req WidgetRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	widget, err := h.svc.CreateWidget(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, widget)
}

// Get handles GET /api/v1/widgets/:id.
func (h *WidgetHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	widget, err := h.svc.GetWidget(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, widget)
}

// List handles GET /api/v1/widgets.
func (h *WidgetHandler) List(c *gin.Context) {
	result, err := h.svc.ListWidgets(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/widgets/:id.
func (h *WidgetHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req WidgetRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	widget, err := h.svc.UpdateWidget(c.Request.Context(), id, req, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, widget)
}

// Delete handles DELETE /api/v1/widgets/:id.
func (h *WidgetHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.DeleteWidget(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Bulk handles POST /api/v1/widgets/bulk.
func (h *WidgetHandler) Bulk(c *gin.Context) {
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
