// Package storage stores uploaded blobs addressed by slash-separated
// relative paths such as "uploads/posts/original/abc.jpg".
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/simp-lee/gocms/internal/config"
)

// ErrInvalidPath is returned for empty paths or paths that resolve to the
// store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Storage is the blob store the upload pipeline writes through.
type Storage interface {
	// Put writes r to p, replacing any existing object.
	Put(ctx context.Context, p string, r io.Reader, contentType string) error
	// Exists reports whether an object is stored at p.
	Exists(ctx context.Context, p string) (bool, error)
	// Delete removes p. Deleting a missing object is not an error.
	Delete(ctx context.Context, p string) error
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage config is nil")
	}

	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Local.Root)
	case "s3":
		return NewS3(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// CleanPath normalizes p into a root-relative key. Leading slashes and ".."
// segments can never climb above the root.
func CleanPath(p string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if cleaned == "" {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
