package post

import (
	"context"
	"strings"
	"time"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/upload"
)

// thumbnailField stores post thumbnails with resized variants under "posts".
var thumbnailField = upload.ImageField{Column: "thumbnail", Folder: "posts", Variants: true}

// PostService defines the business logic for posts.
type PostService interface {
	CreatePost(ctx context.Context, req PostRequest, thumbnail upload.Change, actorID uint) (*domain.Post, error)
	GetPost(ctx context.Context, id uint) (*domain.Post, error)
	ListPosts(ctx context.Context, p query.Params) (*query.Result[domain.Post], error)
	UpdatePost(ctx context.Context, id uint, req PostRequest, thumbnail upload.Change, actorID uint) (*domain.Post, error)
	DeletePost(ctx context.Context, id uint) error
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

type postService struct {
	repo    domain.PostRepository
	uploads *upload.Service
	bulk    pkg.BulkActions
	now     func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(repo domain.PostRepository, uploads *upload.Service) PostService {
	s := &postService{repo: repo, uploads: uploads, now: time.Now}
	s.bulk = pkg.BulkActions{
		"delete":  s.bulkDelete,
		"status":  s.bulkStatus,
		"feature": s.bulkFeature,
	}
	return s
}

func (s *postService) CreatePost(ctx context.Context, req PostRequest, thumbnail upload.Change, actorID uint) (*domain.Post, error) {
	post := &domain.Post{}
	if err := s.apply(post, req); err != nil {
		return nil, err
	}
	post.Stamp(actorID, true)
	if err := s.save(ctx, post, req.TagIDs, thumbnail, true); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, post.ID)
}

func (s *postService) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *postService) ListPosts(ctx context.Context, p query.Params) (*query.Result[domain.Post], error) {
	return s.repo.List(ctx, p)
}

func (s *postService) UpdatePost(ctx context.Context, id uint, req PostRequest, thumbnail upload.Change, actorID uint) (*domain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(post, req); err != nil {
		return nil, err
	}
	post.Stamp(actorID, false)
	if err := s.save(ctx, post, req.TagIDs, thumbnail, false); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and, after commit, its thumbnail files.
func (s *postService) DeletePost(ctx context.Context, id uint) error {
	n, err := s.bulkDelete(ctx, []uint{id}, nil, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

// save writes post, its tags and its thumbnail in one transaction. Files
// stored for the thumbnail are removed again if the transaction does not
// commit.
func (s *postService) save(ctx context.Context, post *domain.Post, tagIDs *[]uint, thumbnail upload.Change, creating bool) error {
	batch := s.uploads.NewBatch()
	err := s.repo.Transaction(ctx, func(repo domain.PostRepository) error {
		next, _, err := batch.Apply(ctx, thumbnailField, post.Thumbnail, thumbnail)
		if err != nil {
			return upload.AppError(err, "failed to store file")
		}
		post.Thumbnail = next

		if creating {
			err = repo.Create(ctx, post)
		} else {
			err = repo.Update(ctx, post)
		}
		if err != nil {
			return err
		}
		if tagIDs != nil {
			return repo.ReplaceTags(ctx, post, *tagIDs)
		}
		return nil
	})
	if err != nil {
		batch.Rollback(ctx)
		return err
	}
	return nil
}

func (s *postService) apply(post *domain.Post, req PostRequest) error {
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
		status = post.Status
	}
	if status == "" {
		status = domain.StatusDraft
	}
	if !domain.ValidStatus(status) {
		return domain.NewAppError(domain.CodeValidation, "status must be one of draft, scheduled, published", nil)
	}

	post.Title = title
	post.Slug = slug
	post.Excerpt = strings.TrimSpace(req.Excerpt)
	post.Content = req.Content
	post.CategoryID = req.CategoryID
	post.Category = nil
	if req.Featured != nil {
		post.Featured = *req.Featured
	}
	if req.PublishedAt != nil {
		post.PublishedAt = req.PublishedAt
	}
	return s.applyStatus(post, status)
}

// applyStatus enforces the publication date rules: published posts get a
// date when none is set, scheduled posts need one.
func (s *postService) applyStatus(post *domain.Post, status string) error {
	switch status {
	case domain.StatusPublished:
		if post.PublishedAt == nil {
			now := s.now()
			post.PublishedAt = &now
		}
	case domain.StatusScheduled:
		if post.PublishedAt == nil {
			return domain.NewAppError(domain.CodeValidation, "published_at is required for scheduled posts", nil)
		}
	}
	post.Status = status
	return nil
}

func (s *postService) bulkDelete(ctx context.Context, ids []uint, _ map[string]any, _ uint) (int64, error) {
	var (
		deleted  int64
		existing []domain.Post
	)
	err := s.repo.Transaction(ctx, func(repo domain.PostRepository) error {
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

// bulkStatus sets the status of posts. An optional data.published_at dates
// every post. Without it, publishing dates undated posts now and scheduling
// fails when a post has no date, the same rules applyStatus enforces.
func (s *postService) bulkStatus(ctx context.Context, ids []uint, data map[string]any, actorID uint) (int64, error) {
	status, err := pkg.BulkString(data, "status")
	if err != nil {
		return 0, err
	}
	if !domain.ValidStatus(status) {
		return 0, domain.NewAppError(domain.CodeValidation, "data.status must be one of draft, scheduled, published", nil)
	}
	publishedAt, err := bulkTime(data, "published_at")
	if err != nil {
		return 0, err
	}

	fields := map[string]any{"status": status}
	if publishedAt != nil {
		fields["published_at"] = *publishedAt
	}
	values := pkg.AuditValues(actorID, fields)

	var affected int64
	err = s.repo.Transaction(ctx, func(repo domain.PostRepository) error {
		var undated []uint
		if publishedAt == nil && status != domain.StatusDraft {
			posts, err := repo.FindByIDs(ctx, ids)
			if err != nil {
				return err
			}
			for _, p := range posts {
				if p.PublishedAt == nil {
					undated = append(undated, p.ID)
				}
			}
		}
		if status == domain.StatusScheduled && len(undated) > 0 {
			return domain.NewAppError(domain.CodeValidation, "data.published_at is required to schedule posts without a publication date", nil)
		}

		var err error
		if affected, err = repo.UpdateByIDs(ctx, ids, values); err != nil {
			return err
		}
		if status != domain.StatusPublished || len(undated) == 0 {
			return nil
		}
		_, err = repo.UpdateByIDs(ctx, undated, map[string]any{"published_at": s.now()})
		return err
	})
	return affected, err
}

// bulkTime reads an optional RFC 3339 time from bulk data.
func bulkTime(data map[string]any, key string) (*time.Time, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, nil
	}
	str, _ := raw.(string)
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(str))
	if err != nil {
		return nil, domain.NewAppError(domain.CodeValidation, "data."+key+" must be an RFC 3339 time", err)
	}
	return &t, nil
}

func (s *postService) bulkFeature(ctx context.Context, ids []uint, data map[string]any, actorID uint) (int64, error) {
	featured, ok := query.ParseBool(data["featured"])
	if !ok {
		return 0, domain.NewAppError(domain.CodeValidation, "data.featured must be a boolean", nil)
	}
	return s.repo.UpdateByIDs(ctx, ids, pkg.AuditValues(actorID, map[string]any{"featured": featured}))
}
