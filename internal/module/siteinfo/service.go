// Package siteinfo manages the singleton site settings record and its image
// fields.
package siteinfo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/upload"
)

const updateFailedMessage = "failed to update site info"

// ImageFields are the image columns of the settings row. The favicon is
// served as uploaded.
var ImageFields = []upload.ImageField{
	{Column: "logo", Folder: "site", Variants: true},
	{Column: "og_image", Folder: "site", Variants: true},
	{Column: "favicon", Folder: "site", Variants: false},
}

var validate = validator.New()

// UpdateInput is one settings update. Cleared names image columns to empty;
// Files maps image columns to their replacement. A file wins over a clear.
type UpdateInput struct {
	Fields  SiteInfoRequest
	Cleared []string
	Files   map[string]upload.Source
}

// SiteInfoService defines the business logic for site settings.
type SiteInfoService interface {
	Get(ctx context.Context) (*domain.SiteInfo, error)
	Update(ctx context.Context, in UpdateInput, actorID uint) (*domain.SiteInfo, error)
}

type siteInfoService struct {
	repo    domain.SiteInfoRepository
	uploads *upload.Service
	logger  *slog.Logger
}

// NewSiteInfoService creates a SiteInfoService.
func NewSiteInfoService(repo domain.SiteInfoRepository, uploads *upload.Service, logger *slog.Logger) SiteInfoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &siteInfoService{repo: repo, uploads: uploads, logger: logger}
}

// Get returns the settings row, or empty settings before it is seeded.
func (s *siteInfoService) Get(ctx context.Context) (*domain.SiteInfo, error) {
	info, err := s.repo.Get(ctx)
	if domain.IsNotFound(err) {
		return &domain.SiteInfo{ID: domain.SiteInfoID}, nil
	}
	return info, err
}

// Update writes the text settings and image changes of in as one
// transaction. Old files of a changed image are deleted before the new one
// is stored. If the transaction does not commit, every file stored by this
// call is removed again and a generic error is returned.
func (s *siteInfoService) Update(ctx context.Context, in UpdateInput, actorID uint) (*domain.SiteInfo, error) {
	if err := checkFields(in.Fields); err != nil {
		return nil, err
	}

	batch := s.uploads.NewBatch()
	var saved *domain.SiteInfo
	err := s.repo.Transaction(ctx, func(repo domain.SiteInfoRepository) error {
		info, err := repo.Get(ctx)
		if domain.IsNotFound(err) {
			info, err = &domain.SiteInfo{ID: domain.SiteInfoID}, nil
		}
		if err != nil {
			return err
		}

		for _, field := range ImageFields {
			src := in.Files[field.Column]
			cleared := src == nil && slices.Contains(in.Cleared, field.Column)
			next, changed, err := batch.Replace(ctx, field, info.ImagePath(field.Column), src, cleared)
			if err != nil {
				return fmt.Errorf("%s: %w", field.Column, err)
			}
			if changed {
				info.SetImagePath(field.Column, next)
			}
		}

		applyFields(info, in.Fields)
		if actorID != 0 {
			info.UpdatedBy = &actorID
		}
		if err := repo.Save(ctx, info); err != nil {
			return err
		}
		saved = info
		return nil
	})
	if err != nil {
		batch.Rollback(ctx)
		s.logger.ErrorContext(ctx, "site info update failed",
			slog.Any("files", fileNames(in.Files)),
			slog.Any("cleared", in.Cleared),
			slog.String("error", err.Error()),
		)
		if mapped := upload.AppError(err, updateFailedMessage); domain.IsValidation(mapped) {
			return nil, mapped
		}
		return nil, domain.NewAppError(domain.CodeInternal, updateFailedMessage, err)
	}
	return saved, nil
}

func checkFields(f SiteInfoRequest) error {
	if f.ContactEmail == nil {
		return nil
	}
	email := strings.TrimSpace(*f.ContactEmail)
	if email == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return domain.NewAppError(domain.CodeValidation, "contact_email must be a valid email address", err)
	}
	return nil
}

func applyFields(info *domain.SiteInfo, f SiteInfoRequest) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&info.SiteName, f.SiteName)
	set(&info.Tagline, f.Tagline)
	set(&info.Description, f.Description)
	set(&info.ContactEmail, f.ContactEmail)
	set(&info.FooterText, f.FooterText)
	info.ContactEmail = strings.ToLower(info.ContactEmail)
}

func fileNames(files map[string]upload.Source) map[string]string {
	out := make(map[string]string, len(files))
	for column, src := range files {
		if src != nil {
			out[column] = src.Filename()
		}
	}
	return out
}
