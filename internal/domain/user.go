package domain

import (
	"context"

	"github.com/simp-lee/gocms/internal/query"
)

// User represents an administrator account.
type User struct {
	BaseModel
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	IsActive     bool    `gorm:"not null;index" json:"is_active"`
	Avatar       *string `gorm:"size:255" json:"avatar"`
	Roles        []Role  `gorm:"-" json:"roles,omitempty"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	// Transaction runs fn with a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, p query.Params) (*query.Result[User], error)
	Update(ctx context.Context, user *User) error
	// FindRoles returns the roles with roleIDs. Unknown ids are a validation
	// error.
	FindRoles(ctx context.Context, roleIDs []uint) ([]Role, error)
	Delete(ctx context.Context, id uint) error
	FindByIDs(ctx context.Context, ids []uint) ([]User, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	SetActive(ctx context.Context, ids []uint, active bool) (int64, error)
}
