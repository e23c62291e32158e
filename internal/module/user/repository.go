package user

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/access"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// userFilter is the list filter of the users resource.
var userFilter = query.NewFilter("users", query.SortSpec{
	Columns:   []string{"id", "name", "email", "created_at"},
	Default:   "id",
	Direction: query.Asc,
}).
	Search("search", "name", "email").
	Bool("is_active", "is_active").
	Exists("role_id", query.Relation{Table: access.UserRolesTable, OwnerKey: "user_id", ForeignKey: "role_id", TextKeys: true})

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Transaction runs fn inside a database transaction.
func (r *userRepository) Transaction(ctx context.Context, fn func(repo domain.UserRepository) error) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// GetByID retrieves a user and its roles by primary key.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	if err := r.attachRoles(ctx, []*domain.User{&user}); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user and its roles by email address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	if err := r.attachRoles(ctx, []*domain.User{&user}); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a filtered, sorted and paginated list of users with roles.
func (r *userRepository) List(ctx context.Context, p query.Params) (*query.Result[domain.User], error) {
	result, err := query.Paginate[domain.User](r.db.WithContext(ctx), userFilter, p)
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	users := make([]*domain.User, len(result.Items))
	for i := range result.Items {
		users[i] = &result.Items[i]
	}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, err
	}
	return result, nil
}

// Update saves changes to an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// FindRoles returns the roles with roleIDs ordered by id. Unknown role ids are
// a validation error.
func (r *userRepository) FindRoles(ctx context.Context, roleIDs []uint) ([]domain.Role, error) {
	roles := []domain.Role{}
	if len(roleIDs) == 0 {
		return roles, nil
	}
	roleIDs = slices.Compact(slices.Sorted(slices.Values(roleIDs)))
	if err := r.db.WithContext(ctx).Where("id IN ?", roleIDs).Order("id").Find(&roles).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	if len(roles) != len(roleIDs) {
		return nil, domain.NewAppError(domain.CodeValidation, "role_ids contains an unknown role", nil)
	}
	return roles, nil
}

// Delete removes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.DeleteByIDs(ctx, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByIDs returns the users among ids that exist.
func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return users, nil
}

// DeleteByIDs removes user rows. Role assignments are dropped by
// AccessControl.RemoveUsers.
func (r *userRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.User{})
	if result.Error != nil {
		return 0, pkg.MapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

// SetActive flips the active flag of users.
func (r *userRepository) SetActive(ctx context.Context, ids []uint, active bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id IN ?", ids).Update("is_active", active)
	if result.Error != nil {
		return 0, pkg.MapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

type userRoleRow struct {
	UserID string
	RoleID string
}

// attachRoles loads the roles of users from the rbac assignment table in two
// queries. Roles are ordered by id.
func (r *userRepository) attachRoles(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}
	keys := make([]string, len(users))
	for i, u := range users {
		keys[i] = access.Key(u.ID)
		u.Roles = []domain.Role{}
	}

	db := r.db.WithContext(ctx)
	var rows []userRoleRow
	if err := db.Table(access.UserRolesTable).Select("user_id", "role_id").
		Where("user_id IN ?", keys).Find(&rows).Error; err != nil {
		return pkg.MapDBError(err)
	}
	if len(rows) == 0 {
		return nil
	}

	roleIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		if id, ok := query.ParseID(row.RoleID); ok {
			roleIDs = append(roleIDs, id)
		}
	}
	var roles []domain.Role
	if err := db.Where("id IN ?", roleIDs).Order("id").Find(&roles).Error; err != nil {
		return pkg.MapDBError(err)
	}

	byUser := make(map[string][]string, len(users))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row.RoleID)
	}
	for _, u := range users {
		assigned := byUser[access.Key(u.ID)]
		for _, role := range roles {
			if slices.Contains(assigned, access.Key(role.ID)) {
				u.Roles = append(u.Roles, role)
			}
		}
	}
	return nil
}
