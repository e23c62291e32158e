package page

import (
	"context"
	"strings"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/upload"
)

const maxPageDepth = 64

var thumbnailField = upload.ImageField{Column: "thumbnail", Folder: "pages", Variants: true}

// PageService defines the business logic for pages.
type PageService interface {
	CreatePage(ctx context.Context, req PageRequest, thumbnail upload.Change, actorID uint) (*domain.Page, error)
	GetPage(ctx context.Context, id uint) (*domain.Page, error)
	ListPages(ctx context.Context, p query.Params) (*query.Result[domain.Page], error)
	UpdatePage(ctx context.Context, id uint, req PageRequest, thumbnail upload.Change, actorID uint) (*domain.Page, error)
	DeletePage(ctx context.Context, id uint) error
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

type pageService struct {
	repo    domain.PageRepository
	uploads *upload.Service
	bulk    pkg.BulkActions
}

// NewPageService creates a PageService.
func NewPageService(repo domain.PageRepository, uploads *upload.Service) PageService {
	s := &pageService{repo: repo, uploads: uploads}
	s.bulk = pkg.BulkActions{
		"delete": s.bulkDelete,
		"status": s.bulkStatus,
	}
	return s
}

func (s *pageService) CreatePage(ctx context.Context, req PageRequest, thumbnail upload.Change, actorID uint) (*domain.Page, error) {
	page := &domain.Page{}
	if err := s.apply(ctx, page, req); err != nil {
		return nil, err
	}
	page.Stamp(actorID, true)
	if err := s.save(ctx, page, thumbnail, true); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *pageService) GetPage(ctx context.Context, id uint) (*domain.Page, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pageService) ListPages(ctx context.Context, p query.Params) (*query.Result[domain.Page], error) {
	return s.repo.List(ctx, p)
}

func (s *pageService) UpdatePage(ctx context.Context, id uint, req PageRequest, thumbnail upload.Change, actorID uint) (*domain.Page, error) {
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, page, req); err != nil {
		return nil, err
	}
	page.Stamp(actorID, false)
	if err := s.save(ctx, page, thumbnail, false); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *pageService) DeletePage(ctx context.Context, id uint) error {
	n, err := s.bulkDelete(ctx, []uint{id}, nil, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *pageService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

func (s *pageService) save(ctx context.Context, page *domain.Page, thumbnail upload.Change, creating bool) error {
	batch := s.uploads.NewBatch()
	err := s.repo.Transaction(ctx, func(repo domain.PageRepository) error {
		next, _, err := batch.Apply(ctx, thumbnailField, page.Thumbnail, thumbnail)
		if err != nil {
			return upload.AppError(err, "failed to store file")
		}
		page.Thumbnail = next
		if creating {
			return repo.Create(ctx, page)
		}
		return repo.Update(ctx, page)
	})
	if err != nil {
		batch.Rollback(ctx)
		return err
	}
	return nil
}

func (s *pageService) apply(ctx context.Context, page *domain.Page, req PageRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	slug, err := pkg.ResolveSlug(req.Slug, title)
	if err != nil {
		return err
	}
	status := req.Status
	if status == "" {
		status = page.Status
	}
	if status == "" {
		status = domain.StatusDraft
	}
	if !domain.ValidStatus(status) {
		return domain.NewAppError(domain.CodeValidation, "status must be one of draft, scheduled, published", nil)
	}
	if err := s.checkParent(ctx, page.ID, req.ParentID); err != nil {
		return err
	}
	page.Title = title
	page.Slug = slug
	page.Content = req.Content
	page.Status = status
	page.ParentID = req.ParentID
	return nil
}

// checkParent rejects missing parents and parent chains leading back to id.
func (s *pageService) checkParent(ctx context.Context, id uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	next := *parentID
	for depth := 0; depth < maxPageDepth; depth++ {
		if id != 0 && next == id {
			return domain.NewAppError(domain.CodeValidation, "a page cannot be its own ancestor", nil)
		}
		parent, err := s.repo.GetByID(ctx, next)
		if domain.IsNotFound(err) {
			if depth == 0 {
				return domain.NewAppError(domain.CodeValidation, "parent page does not exist", nil)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		next = *parent.ParentID
	}
	return domain.NewAppError(domain.CodeValidation, "page nesting is too deep", nil)
}

func (s *pageService) bulkDelete(ctx context.Context, ids []uint, _ map[string]any, _ uint) (int64, error) {
	var (
		deleted  int64
		existing []domain.Page
	)
	err := s.repo.Transaction(ctx, func(repo domain.PageRepository) error {
		var err error
		if existing, err = repo.FindByIDs(ctx, ids); err != nil {
			return err
		}
		deleted, err = repo.DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}
	for _, p := range existing {
		if p.Thumbnail != nil {
			s.uploads.Discard(ctx, thumbnailField, *p.Thumbnail)
		}
	}
	return deleted, nil
}

func (s *pageService) bulkStatus(ctx context.Context, ids []uint, data map[string]any, actorID uint) (int64, error) {
	status, err := pkg.BulkString(data, "status")
	if err != nil {
		return 0, err
	}
	if !domain.ValidStatus(status) {
		return 0, domain.NewAppError(domain.CodeValidation, "data.status must be one of draft, scheduled, published", nil)
	}
	return s.repo.UpdateByIDs(ctx, ids, pkg.AuditValues(actorID, map[string]any{"status": status}))
}
