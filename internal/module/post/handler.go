package post

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/upload"
)

// PostHandler handles REST API requests for posts.
type PostHandler struct {
	svc PostService
}

// NewPostHandler creates a new PostHandler with the given service.
func NewPostHandler(svc PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// bindPost binds the request and reads multipart-only inputs. It writes the
// error response itself and reports false on failure.
func bindPost(c *gin.Context) (PostRequest, upload.Change, bool) {
	var req PostRequest
	if !pkg.BindAndValidate(c, &req) {
		return req, upload.Change{}, false
	}
	var err error
	if req.TagIDs == nil {
		if req.TagIDs, err = pkg.FormIDs(c, "tag_ids"); err != nil {
			pkg.Error(c, err)
			return req, upload.Change{}, false
		}
	}
	thumbnail, err := pkg.ImageChange(c, "thumbnail")
	if err != nil {
		pkg.Error(c, err)
		return req, upload.Change{}, false
	}
	return req, thumbnail, true
}

// Create handles POST /api/v1/posts.
func (h *PostHandler) Create(c *gin.Context) {
	req, thumbnail, ok := bindPost(c)
	if !ok {
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), req, thumbnail, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, post)
}

// Get handles GET /api/v1/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, post)
}

// List handles GET /api/v1/posts.
func (h *PostHandler) List(c *gin.Context) {
	result, err := h.svc.ListPosts(c.Request.Context(), pkg.QueryParams(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/posts/:id.
func (h *PostHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	req, thumbnail, ok := bindPost(c)
	if !ok {
		return
	}
	post, err := h.svc.UpdatePost(c.Request.Context(), id, req, thumbnail, middleware.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, post)
}

// Delete handles DELETE /api/v1/posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Bulk handles POST /api/v1/posts/bulk.
func (h *PostHandler) Bulk(c *gin.Context) {
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
