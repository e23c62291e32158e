package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/gocms/internal/domain"
)

var errInvalidCredentials = domain.NewAppError(domain.CodeUnauthorized, "invalid email or password", nil)

// Tokens signs access tokens for a user id and verifies them.
type Tokens interface {
	Issue(userID uint) (string, time.Time, error)
	Parse(raw string) (uint, error)
}

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Me(ctx context.Context, userID uint) (*domain.User, error)
	ChangePassword(ctx context.Context, userID uint, current, next string) error
	Authenticate(ctx context.Context, raw string) (uint, error)
}

// authService implements Service.
type authService struct {
	tokens   Tokens
	userRepo domain.UserRepository
}

// NewService creates a new auth Service.
func NewService(tokens Tokens, userRepo domain.UserRepository) Service {
	return &authService{tokens: tokens, userRepo: userRepo}
}

// Login authenticates an active user by email and password and returns a
// signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Unknown emails are reported like wrong passwords.
		if domain.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "account is disabled", nil)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}
	return &TokenResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

// Me returns the active user behind userID with their roles.
func (s *authService) Me(ctx context.Context, userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "account is disabled", nil)
	}
	return user, nil
}

// Authenticate verifies raw and returns the id of the active user it was
// issued to. Tokens of deleted or deactivated users are rejected.
func (s *authService) Authenticate(ctx context.Context, raw string) (uint, error) {
	userID, err := s.tokens.Parse(raw)
	if err != nil {
		return 0, domain.NewAppError(domain.CodeUnauthorized, "invalid or expired token", err)
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// ChangePassword replaces the password of userID after checking current.
func (s *authService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.NewAppError(domain.CodeValidation, "current password is incorrect", nil)
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.NewAppError(domain.CodeValidation, "password must not exceed 72 bytes", nil)
		}
		return domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Update(ctx, user)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.NewAppError(domain.CodeValidation, "password must be at least 8 characters", nil)
	}
	if len(password) > 72 {
		return domain.NewAppError(domain.CodeValidation, "password must not exceed 72 bytes", nil)
	}
	return nil
}
