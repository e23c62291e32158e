package page

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/crud"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

var pageFilter = query.NewFilter("pages", query.SortSpec{
	Columns:   []string{"id", "title", "status", "created_at", "updated_at"},
	Default:   "created_at",
	Direction: query.Desc,
}).
	Search("search", "title", "slug", "status").
	Match("status", "status").
	ForeignKey("parent_id", "parent_id")

// pageRepository implements domain.PageRepository.
type pageRepository struct {
	*crud.Repository[domain.Page]
}

// NewPageRepository creates a PageRepository backed by db.
func NewPageRepository(db *gorm.DB) domain.PageRepository {
	return &pageRepository{crud.New[domain.Page](db, pageFilter)}
}

func (r *pageRepository) Transaction(ctx context.Context, fn func(repo domain.PageRepository) error) error {
	return r.Transact(ctx, func(tx *crud.Repository[domain.Page]) error {
		return fn(&pageRepository{tx})
	})
}

// DeleteByIDs removes pages and detaches their children. Callers run it
// inside Transaction.
func (r *pageRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	err := r.DB(ctx).Model(&domain.Page{}).
		Where("parent_id IN ?", ids).
		Where("id NOT IN ?", ids).
		Update("parent_id", nil).Error
	if err != nil {
		return 0, pkg.MapDBError(err)
	}
	return r.Repository.DeleteByIDs(ctx, ids)
}
