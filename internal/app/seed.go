package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/access"
	"github.com/simp-lee/gocms/internal/config"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/module/role"
	"github.com/simp-lee/gocms/internal/module/siteinfo"
	"github.com/simp-lee/gocms/internal/module/user"
)

// models lists every table managed by AutoMigrate.
var models = []any{
	&domain.Permission{},
	&domain.Role{},
	&domain.User{},
	&domain.Category{},
	&domain.Tag{},
	&domain.Post{},
	&domain.Page{},
	&domain.Widget{},
	&domain.SiteInfo{},
}

// migrate creates or updates the schema and seeds the rows the admin API
// depends on: permissions, the admin role with its wildcard grant, the site
// info singleton and, when configured, the first administrator.
func migrate(ctx context.Context, db *gorm.DB, acl *access.Store, auth *config.AuthConfig, log *slog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	admin, err := role.NewRoleRepository(db).Seed(ctx, domain.DefaultPermissions)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	admin.Permissions = []string{domain.AllPermissions}
	if err := acl.SyncRole(admin); err != nil {
		return fmt.Errorf("seed admin grants: %w", err)
	}
	if err := siteinfo.NewSiteInfoRepository(db).Seed(ctx); err != nil {
		return fmt.Errorf("seed site info: %w", err)
	}
	if auth != nil && auth.AdminEmail != "" {
		created, err := seedAdmin(ctx, db, acl, admin.ID, auth.AdminEmail, auth.AdminPassword)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if created {
			log.Info("administrator created", slog.String("email", auth.AdminEmail))
		}
	}
	log.Info("auto migration completed")
	return nil
}

// seedAdmin creates an active user holding the admin role unless email is
// already registered. It reports whether a user was created.
func seedAdmin(ctx context.Context, db *gorm.DB, acl *access.Store, adminRoleID uint, email, password string) (bool, error) {
	repo := user.NewUserRepository(db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !domain.IsNotFound(err) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Name: "Administrator", Email: email, PasswordHash: string(hash), IsActive: true}
	if err := repo.Create(ctx, u); err != nil {
		return false, err
	}
	if err := acl.AssignRoles(u.ID, []uint{adminRoleID}); err != nil {
		return false, fmt.Errorf("assign admin role: %w", err)
	}
	return true, nil
}
