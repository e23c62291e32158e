package role

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
)

// RoleHandler handles REST API requests for roles and permissions.
type RoleHandler struct {
	svc RoleService
}

// NewRoleHandler creates a new RoleHandler with the given service.
func NewRoleHandler(svc RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// Create handles POST /api/v1/roles.
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	role, err := h.svc.CreateRole(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, role)
}

// Get handles GET /api/v1/roles/:id.
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	role, err := h.svc.GetRole(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, role)
}

// List handles GET /api/v1/roles.
func (h *RoleHandler) List(c *gin.Context) {
	result, err := h.svc.ListRoles(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/roles/:id.
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req RoleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	role, err := h.svc.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, role)
}

// Delete handles DELETE /api/v1/roles/:id.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.DeleteRole(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Bulk handles POST /api/v1/roles/bulk.
func (h *RoleHandler) Bulk(c *gin.Context) {
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

// Permissions handles GET /api/v1/permissions.
func (h *RoleHandler) Permissions(c *gin.Context) {
	perms, err := h.svc.ListPermissions(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, perms)
}
