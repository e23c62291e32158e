package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
)

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	avatar, err := pkg.ImageChange(c, "avatar")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req, avatar)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, user)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.svc.ListUsers(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	if req.RoleIDs == nil {
		if req.RoleIDs, err = pkg.FormIDs(c, "role_ids"); err != nil {
			pkg.Error(c, err)
			return
		}
	}
	avatar, err := pkg.ImageChange(c, "avatar")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), id, req, avatar)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// Bulk handles POST /api/v1/users/bulk.
func (h *UserHandler) Bulk(c *gin.Context) {
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
