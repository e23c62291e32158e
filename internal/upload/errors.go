package upload

import (
	"errors"

	"github.com/simp-lee/gocms/internal/domain"
)

// AppError converts an upload failure into the error shown to clients.
// Rejected payloads become validation errors; anything else is reported
// with the generic message and never exposes storage paths.
func AppError(err error, message string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotImage):
		return domain.NewAppError(domain.CodeValidation, "file is not a supported image", err)
	case errors.Is(err, ErrTooLarge):
		return domain.NewAppError(domain.CodeValidation, "file is too large", err)
	case errors.Is(err, ErrEmptyFile):
		return domain.NewAppError(domain.CodeValidation, "file is empty", err)
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.NewAppError(domain.CodeInternal, message, err)
}
