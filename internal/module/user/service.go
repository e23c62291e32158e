package user

import (
	"context"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/upload"
)

// avatarField stores avatars with resized variants under "avatars".
var avatarField = upload.ImageField{Column: "avatar", Folder: "avatars", Variants: true}

// UserService defines the business logic for users.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest, avatar upload.Change) (*domain.User, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	ListUsers(ctx context.Context, p query.Params) (*query.Result[domain.User], error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest, avatar upload.Change) (*domain.User, error)
	DeleteUser(ctx context.Context, id, actorID uint) error
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

// userService implements UserService.
type userService struct {
	repo    domain.UserRepository
	access  domain.AccessControl
	uploads *upload.Service
	bulk    pkg.BulkActions
}

// NewUserService creates a new UserService. Role assignments are written to
// access after the user row commits.
func NewUserService(repo domain.UserRepository, access domain.AccessControl, uploads *upload.Service) UserService {
	s := &userService{repo: repo, access: access, uploads: uploads}
	s.bulk = pkg.BulkActions{
		"delete":     s.bulkDelete,
		"activate":   s.bulkSetActive(true),
		"deactivate": s.bulkSetActive(false),
	}
	return s
}

// CreateUser validates input, hashes the password and persists the user with
// its roles and avatar.
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest, avatar upload.Change) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.save(ctx, user, req.RoleIDs, true, avatar, true); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns a filtered page of users.
func (s *userService) ListUsers(ctx context.Context, p query.Params) (*query.Result[domain.User], error) {
	return s.repo.List(ctx, p)
}

// UpdateUser loads the existing user, applies changes, and persists them.
func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest, avatar upload.Change) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Email = email
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if user.PasswordHash, err = hashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	var roleIDs []uint
	if req.RoleIDs != nil {
		roleIDs = *req.RoleIDs
	}
	if err := s.save(ctx, user, roleIDs, req.RoleIDs != nil, avatar, false); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user and, after commit, its avatar files.
func (s *userService) DeleteUser(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return domain.NewAppError(domain.CodeValidation, "cannot delete your own account", nil)
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Transaction(ctx, func(repo domain.UserRepository) error {
		return repo.Delete(ctx, id)
	}); err != nil {
		return err
	}
	if err := s.access.RemoveUsers([]uint{id}); err != nil {
		return err
	}
	if user.Avatar != nil {
		s.uploads.Discard(ctx, avatarField, *user.Avatar)
	}
	return nil
}

// Bulk dispatches a bulk action.
func (s *userService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

// save writes user and its avatar in one transaction and then assigns the
// roles. Files stored for the avatar are removed again if the transaction
// does not commit.
func (s *userService) save(ctx context.Context, user *domain.User, roleIDs []uint, setRoles bool, avatar upload.Change, creating bool) error {
	batch := s.uploads.NewBatch()
	var roles []domain.Role
	err := s.repo.Transaction(ctx, func(repo domain.UserRepository) error {
		if setRoles {
			var err error
			if roles, err = repo.FindRoles(ctx, roleIDs); err != nil {
				return err
			}
		}

		next, _, err := batch.Apply(ctx, avatarField, user.Avatar, avatar)
		if err != nil {
			return upload.AppError(err, "failed to store file")
		}
		user.Avatar = next

		if creating {
			return repo.Create(ctx, user)
		}
		return repo.Update(ctx, user)
	})
	if err != nil {
		batch.Rollback(ctx)
		return err
	}
	if !setRoles {
		return nil
	}
	ids := make([]uint, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	if err := s.access.AssignRoles(user.ID, ids); err != nil {
		return err
	}
	user.Roles = roles
	return nil
}

func (s *userService) bulkDelete(ctx context.Context, ids []uint, _ map[string]any, actorID uint) (int64, error) {
	if slices.Contains(ids, actorID) {
		return 0, domain.NewAppError(domain.CodeValidation, "cannot delete your own account", nil)
	}
	var (
		deleted  int64
		existing []domain.User
	)
	err := s.repo.Transaction(ctx, func(repo domain.UserRepository) error {
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
	removed := make([]uint, len(existing))
	for i, u := range existing {
		removed[i] = u.ID
	}
	if err := s.access.RemoveUsers(removed); err != nil {
		return 0, err
	}
	for _, u := range existing {
		if u.Avatar != nil {
			s.uploads.Discard(ctx, avatarField, *u.Avatar)
		}
	}
	return deleted, nil
}

func (s *userService) bulkSetActive(active bool) pkg.BulkAction {
	return func(ctx context.Context, ids []uint, _ map[string]any, actorID uint) (int64, error) {
		if !active && slices.Contains(ids, actorID) {
			return 0, domain.NewAppError(domain.CodeValidation, "cannot deactivate your own account", nil)
		}
		return s.repo.SetActive(ctx, ids, active)
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewAppError(domain.CodeValidation, "password cannot be hashed", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateNameEmail checks that name and email are non-empty.
func validateNameEmail(name, email string) error {
	if name == "" {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if utf8.RuneCountInString(name) < 2 {
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	}
	if utf8.RuneCountInString(name) > 100 {
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}

	if email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	return nil
}
