package media

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/upload"
)

// MediaHandler handles REST API requests for media files.
type MediaHandler struct {
	svc MediaService
}

// NewMediaHandler creates a new MediaHandler with the given service.
func NewMediaHandler(svc MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// Upload handles POST /api/v1/media.
func (h *MediaHandler) Upload(c *gin.Context) {
	var req UploadRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "file is required", err))
		return
	}
	result, err := h.svc.Upload(c.Request.Context(), upload.FromFileHeader(fh), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, result)
}

// Delete handles DELETE /api/v1/media.
func (h *MediaHandler) Delete(c *gin.Context) {
	var req DeleteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}
