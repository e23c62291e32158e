package taxonomy

import (
	"context"
	"strings"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// maxCategoryDepth bounds the parent walk used for cycle detection.
const maxCategoryDepth = 64

// CategoryService defines the business logic for categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, req CategoryRequest, actorID uint) (*domain.Category, error)
	GetCategory(ctx context.Context, id uint) (*domain.Category, error)
	ListCategories(ctx context.Context, p query.Params) (*query.Result[domain.Category], error)
	UpdateCategory(ctx context.Context, id uint, req CategoryRequest, actorID uint) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

// TagService defines the business logic for tags.
type TagService interface {
	CreateTag(ctx context.Context, req TagRequest, actorID uint) (*domain.Tag, error)
	GetTag(ctx context.Context, id uint) (*domain.Tag, error)
	ListTags(ctx context.Context, p query.Params) (*query.Result[domain.Tag], error)
	UpdateTag(ctx context.Context, id uint, req TagRequest, actorID uint) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id uint) error
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

type categoryService struct {
	repo domain.CategoryRepository
	bulk pkg.BulkActions
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(repo domain.CategoryRepository) CategoryService {
	s := &categoryService{repo: repo}
	s.bulk = pkg.BulkActions{
		"delete": func(ctx context.Context, ids []uint, _ map[string]any, _ uint) (int64, error) {
			return repo.DeleteByIDs(ctx, ids)
		},
	}
	return s
}

func (s *categoryService) CreateCategory(ctx context.Context, req CategoryRequest, actorID uint) (*domain.Category, error) {
	category := &domain.Category{}
	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}
	category.Stamp(actorID, true)
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context, p query.Params) (*query.Result[domain.Category], error) {
	return s.repo.List(ctx, p)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, req CategoryRequest, actorID uint) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}
	category.Stamp(actorID, false)
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *categoryService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

func (s *categoryService) apply(ctx context.Context, category *domain.Category, req CategoryRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	slug, err := pkg.ResolveSlug(req.Slug, title)
	if err != nil {
		return err
	}
	if err := s.checkParent(ctx, category.ID, req.ParentID); err != nil {
		return err
	}
	category.Title = title
	category.Slug = slug
	category.Description = strings.TrimSpace(req.Description)
	category.ParentID = req.ParentID
	return nil
}

// checkParent rejects missing parents and parent chains leading back to id.
func (s *categoryService) checkParent(ctx context.Context, id uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	next := *parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if id != 0 && next == id {
			return domain.NewAppError(domain.CodeValidation, "a category cannot be its own ancestor", nil)
		}
		parent, err := s.repo.GetByID(ctx, next)
		if domain.IsNotFound(err) {
			if depth == 0 {
				return domain.NewAppError(domain.CodeValidation, "parent category does not exist", nil)
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
	return domain.NewAppError(domain.CodeValidation, "category nesting is too deep", nil)
}

type tagService struct {
	repo domain.TagRepository
	bulk pkg.BulkActions
}

// NewTagService creates a TagService.
func NewTagService(repo domain.TagRepository) TagService {
	s := &tagService{repo: repo}
	s.bulk = pkg.BulkActions{
		"delete": func(ctx context.Context, ids []uint, _ map[string]any, _ uint) (int64, error) {
			return repo.DeleteByIDs(ctx, ids)
		},
	}
	return s
}

func (s *tagService) CreateTag(ctx context.Context, req TagRequest, actorID uint) (*domain.Tag, error) {
	tag := &domain.Tag{}
	if err := applyTag(tag, req); err != nil {
		return nil, err
	}
	tag.Stamp(actorID, true)
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*domain.Tag, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *tagService) ListTags(ctx context.Context, p query.Params) (*query.Result[domain.Tag], error) {
	return s.repo.List(ctx, p)
}

func (s *tagService) UpdateTag(ctx context.Context, id uint, req TagRequest, actorID uint) (*domain.Tag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTag(tag, req); err != nil {
		return nil, err
	}
	tag.Stamp(actorID, false)
	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *tagService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

func applyTag(tag *domain.Tag, req TagRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	slug, err := pkg.ResolveSlug(req.Slug, title)
	if err != nil {
		return err
	}
	tag.Title = title
	tag.Slug = slug
	return nil
}
