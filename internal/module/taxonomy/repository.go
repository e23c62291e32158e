package taxonomy

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/crud"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

var (
	categoryFilter = query.NewFilter("categories", query.SortSpec{
		Columns:   []string{"id", "title", "created_at"},
		Default:   "created_at",
		Direction: query.Desc,
	}).
		Search("search", "title", "slug").
		ForeignKey("parent_id", "parent_id")

	tagFilter = query.NewFilter("tags", query.SortSpec{
		Columns:   []string{"id", "title", "created_at"},
		Default:   "created_at",
		Direction: query.Desc,
	}).
		Search("search", "title", "slug")
)

// categoryRepository implements domain.CategoryRepository.
type categoryRepository struct {
	*crud.Repository[domain.Category]
}

// NewCategoryRepository creates a CategoryRepository backed by db.
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{crud.New[domain.Category](db, categoryFilter)}
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.DeleteByIDs(ctx, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	var deleted int64
	err := r.Transact(ctx, func(tx *crud.Repository[domain.Category]) error {
		db := tx.DB(ctx)
		if err := db.Model(&domain.Category{}).Where("parent_id IN ?", ids).Update("parent_id", nil).Error; err != nil {
			return pkg.MapDBError(err)
		}
		if err := db.Model(&domain.Post{}).Where("category_id IN ?", ids).Update("category_id", nil).Error; err != nil {
			return pkg.MapDBError(err)
		}
		var err error
		deleted, err = tx.DeleteByIDs(ctx, ids)
		return err
	})
	return deleted, err
}

// tagRepository implements domain.TagRepository.
type tagRepository struct {
	*crud.Repository[domain.Tag]
}

// NewTagRepository creates a TagRepository backed by db.
func NewTagRepository(db *gorm.DB) domain.TagRepository {
	return &tagRepository{crud.New[domain.Tag](db, tagFilter)}
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.DeleteByIDs(ctx, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tagRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	var deleted int64
	err := r.Transact(ctx, func(tx *crud.Repository[domain.Tag]) error {
		if err := tx.DB(ctx).Exec("DELETE FROM post_tags WHERE tag_id IN ?", ids).Error; err != nil {
			return pkg.MapDBError(err)
		}
		var err error
		deleted, err = tx.DeleteByIDs(ctx, ids)
		return err
	})
	return deleted, err
}
