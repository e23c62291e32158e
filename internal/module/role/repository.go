package role

import (
	"context"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// roleFilter is the list filter of the roles resource.
var roleFilter = query.NewFilter("roles", query.SortSpec{
	Columns:   []string{"id", "name", "created_at"},
	Default:   "id",
	Direction: query.Asc,
}).
	Search("search", "name", "slug")

// roleRepository implements domain.RoleRepository using GORM.
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository backed by the given GORM database.
func NewRoleRepository(db *gorm.DB) domain.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Transaction(ctx context.Context, fn func(repo domain.RoleRepository) error) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&roleRepository{db: tx})
	})
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, p query.Params) (*query.Result[domain.Role], error) {
	result, err := query.Paginate[domain.Role](r.db.WithContext(ctx), roleFilter, p)
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return result, nil
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	if err := r.db.WithContext(ctx).Save(role).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// PermissionNames returns the catalog names of ids in id order.
func (r *roleRepository) PermissionNames(ctx context.Context, ids []uint) ([]string, error) {
	names := []string{}
	if len(ids) == 0 {
		return names, nil
	}
	ids = slices.Compact(slices.Sorted(slices.Values(ids)))
	if err := r.db.WithContext(ctx).Model(&domain.Permission{}).
		Where("id IN ?", ids).Order("id").Pluck("name", &names).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	if len(names) != len(ids) {
		return nil, domain.NewAppError(domain.CodeValidation, "permission_ids contains an unknown permission", nil)
	}
	return names, nil
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return roles, nil
}

// DeleteByIDs removes role rows. Grants and assignments are dropped by
// AccessControl.DeleteRoles.
func (r *roleRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Role{})
	if result.Error != nil {
		return 0, pkg.MapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	var perms []domain.Permission
	if err := r.db.WithContext(ctx).Order("name").Find(&perms).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return perms, nil
}

func (r *roleRepository) Seed(ctx context.Context, permissions []domain.Permission) (*domain.Role, error) {
	admin := domain.Role{Name: "Administrator", Slug: domain.AdminRoleSlug, Description: "Granted every permission"}
	err := pkg.WithTx(ctx, r.db, func(db *gorm.DB) error {
		if len(permissions) > 0 {
			perms := make([]domain.Permission, len(permissions))
			copy(perms, permissions)
			if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
				Create(&perms).Error; err != nil {
				return pkg.MapDBError(err)
			}
		}
		if err := db.Where(domain.Role{Slug: domain.AdminRoleSlug}).FirstOrCreate(&admin).Error; err != nil {
			return pkg.MapDBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
