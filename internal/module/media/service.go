// Package media exposes the upload pipeline directly: plain file uploads,
// image uploads with variants, and deletion of stored files.
package media

import (
	"context"
	"strings"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/upload"
)

// DefaultFolder receives uploads that name no folder.
const DefaultFolder = "media"

// MediaService defines the business logic for media files.
type MediaService interface {
	Upload(ctx context.Context, src upload.Source, req UploadRequest) (*UploadResult, error)
	Delete(ctx context.Context, req DeleteRequest) error
}

type mediaService struct {
	uploads *upload.Service
}

// NewMediaService creates a MediaService.
func NewMediaService(uploads *upload.Service) MediaService {
	return &mediaService{uploads: uploads}
}

func (s *mediaService) Upload(ctx context.Context, src upload.Source, req UploadRequest) (*UploadResult, error) {
	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		folder = DefaultFolder
	}
	if images, _ := query.ParseBool(req.Images); images {
		paths, err := s.uploads.UploadImage(ctx, src, folder, upload.ImageOptions{Variants: true, FileName: req.Name})
		if err != nil {
			return nil, upload.AppError(err, "failed to store file")
		}
		return &UploadResult{Path: paths[s.uploads.OriginalFolder()], Paths: paths}, nil
	}
	p, err := s.uploads.UploadFile(ctx, src, folder, req.Name)
	if err != nil {
		return nil, upload.AppError(err, "failed to store file")
	}
	return &UploadResult{Path: p}, nil
}

func (s *mediaService) Delete(ctx context.Context, req DeleteRequest) error {
	for _, p := range req.Paths {
		if !s.uploads.Owns(p) {
			return domain.NewAppError(domain.CodeValidation, "paths must name uploaded files", nil)
		}
	}
	if err := s.uploads.DeleteFiles(ctx, req.Paths, upload.DeleteOptions{Variants: req.Variants}); err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to delete files", err)
	}
	return nil
}
