package domain

import (
	"context"

	"github.com/simp-lee/gocms/internal/query"
)

// AdminRoleSlug names the role that is granted every permission.
const AdminRoleSlug = "admin"

// AllPermissions is the wildcard grant held by the admin role.
const AllPermissions = "*"

// Role groups permissions that can be assigned to users.
type Role struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:255" json:"description"`
	// Permissions are the granted permission names, kept by AccessControl.
	Permissions []string `gorm:"-" json:"permissions"`
}

// Permission is a named capability, e.g. "posts.manage".
type Permission struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

// DefaultPermissions are seeded on startup so roles can reference them.
var DefaultPermissions = []Permission{
	{Name: "posts.manage", Description: "Create, edit and delete blog posts"},
	{Name: "pages.manage", Description: "Create, edit and delete pages"},
	{Name: "taxonomies.manage", Description: "Manage categories and tags"},
	{Name: "widgets.manage", Description: "Manage navigational widgets"},
	{Name: "media.manage", Description: "Upload and delete media files"},
	{Name: "users.manage", Description: "Manage users"},
	{Name: "roles.manage", Description: "Manage roles and permissions"},
	{Name: "settings.manage", Description: "Update site information"},
}

// RoleRepository defines the data access interface for roles and the
// permission catalog.
type RoleRepository interface {
	Transaction(ctx context.Context, fn func(repo RoleRepository) error) error
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	List(ctx context.Context, p query.Params) (*query.Result[Role], error)
	Update(ctx context.Context, role *Role) error
	FindByIDs(ctx context.Context, ids []uint) ([]Role, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	// PermissionNames resolves catalog ids to names. Unknown ids are a
	// validation error.
	PermissionNames(ctx context.Context, ids []uint) ([]string, error)
	// Seed inserts missing permissions and returns the admin role, creating
	// it when missing.
	Seed(ctx context.Context, permissions []Permission) (*Role, error)
}

// AccessControl stores role grants and user role assignments and answers
// permission checks. Its writes are not part of repository transactions, so
// callers apply them after commit.
type AccessControl interface {
	// SyncRole sets the grants of role to exactly role.Permissions.
	SyncRole(role *Role) error
	DeleteRoles(ids []uint) error
	RolePermissions(roleIDs []uint) (map[uint][]string, error)
	// AssignRoles sets the roles of userID to exactly roleIDs.
	AssignRoles(userID uint, roleIDs []uint) error
	RemoveUsers(userIDs []uint) error
	HasPermission(ctx context.Context, userID uint, permission string) (bool, error)
}
