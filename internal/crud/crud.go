// Package crud provides the GORM data access shared by the content
// repositories: single-record CRUD, filtered listing and id-set updates.
package crud

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// Repository implements the common operations for model T. Associations are
// never written implicitly; callers manage them explicitly.
type Repository[T any] struct {
	db       *gorm.DB
	filter   *query.Filter
	preloads []string
}

// New creates a Repository listing through filter and preloading the named
// associations on reads.
func New[T any](db *gorm.DB, filter *query.Filter, preloads ...string) *Repository[T] {
	return &Repository[T]{db: db, filter: filter, preloads: preloads}
}

// WithDB returns a copy bound to db, typically a transaction.
func (r *Repository[T]) WithDB(db *gorm.DB) *Repository[T] {
	cp := *r
	cp.db = db
	return &cp
}

// DB returns the underlying handle bound to ctx.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Transact runs fn with a copy bound to one transaction.
func (r *Repository[T]) Transact(ctx context.Context, fn func(tx *Repository[T]) error) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(r.WithDB(tx))
	})
}

// Create inserts v.
func (r *Repository[T]) Create(ctx context.Context, v *T) error {
	if err := r.DB(ctx).Omit(clause.Associations).Create(v).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// GetByID loads a record and its preloaded associations.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	v := new(T)
	if err := r.preload(r.DB(ctx)).First(v, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return v, nil
}

// List returns a filtered, sorted and paginated listing.
func (r *Repository[T]) List(ctx context.Context, p query.Params) (*query.Result[T], error) {
	result, err := query.Paginate[T](r.DB(ctx), r.filter, p, r.preload)
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return result, nil
}

// Update saves every column of v.
func (r *Repository[T]) Update(ctx context.Context, v *T) error {
	if err := r.DB(ctx).Omit(clause.Associations).Save(v).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// FindByIDs returns the records among ids that exist.
func (r *Repository[T]) FindByIDs(ctx context.Context, ids []uint) ([]T, error) {
	var out []T
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return out, nil
}

// Delete removes one record. A missing record is ErrNotFound.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	n, err := r.DeleteByIDs(ctx, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByIDs removes the records among ids and reports how many existed.
func (r *Repository[T]) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	result := r.DB(ctx).Where("id IN ?", ids).Delete(new(T))
	if result.Error != nil {
		return 0, pkg.MapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

// UpdateByIDs sets values on the records among ids. updated_at is refreshed.
func (r *Repository[T]) UpdateByIDs(ctx context.Context, ids []uint, values map[string]any) (int64, error) {
	result := r.DB(ctx).Model(new(T)).Where("id IN ?", ids).Updates(values)
	if result.Error != nil {
		return 0, pkg.MapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *Repository[T]) preload(db *gorm.DB) *gorm.DB {
	for _, name := range r.preloads {
		db = db.Preload(name)
	}
	return db
}
