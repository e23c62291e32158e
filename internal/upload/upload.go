// Package upload stores uploaded files through a storage backend and manages
// the resized variants of images.
//
// An image uploaded with variants is laid out as
//
//	{base}/{folder}/{original}/{name}
//	{base}/{folder}/{label}/{name}   one per configured size
//
// and without variants as {base}/{folder}/{name}. DeriveVariantPath maps the
// first form onto the second, which is how DeleteFiles finds the variants of
// a stored original.
package upload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/simp-lee/gocms/internal/config"
	"github.com/simp-lee/gocms/internal/storage"
)

// DefaultOriginalFolder is the label of the unresized copy.
const DefaultOriginalFolder = "original"

const defaultJPEGQuality = 85

var (
	// ErrNotImage is returned when an image upload is not a supported format.
	ErrNotImage = errors.New("upload: file is not a supported image")
	// ErrTooLarge is returned when a payload exceeds the configured limit.
	ErrTooLarge = errors.New("upload: file is too large")
	// ErrEmptyFile is returned for zero-length payloads.
	ErrEmptyFile = errors.New("upload: file is empty")
)

// Size is the bounding box of a variant.
type Size struct {
	Width  int
	Height int
}

// DefaultSizes returns the variant set used when none is configured.
func DefaultSizes() map[string]Size {
	return map[string]Size{
		"small":  {Width: 150, Height: 150},
		"medium": {Width: 600, Height: 600},
		"large":  {Width: 1200, Height: 1200},
	}
}

// Options configures a Service.
type Options struct {
	BasePath       string
	OriginalFolder string
	Sizes          map[string]Size
	JPEGQuality    int
	MaxBytes       int64
}

// OptionsFromConfig converts validated upload config into Options.
func OptionsFromConfig(cfg *config.UploadConfig) Options {
	opts := Options{
		BasePath:       cfg.BasePath,
		OriginalFolder: cfg.OriginalFolder,
		JPEGQuality:    cfg.JPEGQuality,
		MaxBytes:       int64(cfg.MaxSizeMB) << 20,
	}
	if len(cfg.Sizes) > 0 {
		opts.Sizes = make(map[string]Size, len(cfg.Sizes))
		for label, sz := range cfg.Sizes {
			opts.Sizes[label] = Size{Width: sz.Width, Height: sz.Height}
		}
	}
	return opts
}

// ImageOptions controls a single UploadImage call. Zero values fall back to
// the service defaults.
type ImageOptions struct {
	Variants       bool
	Sizes          map[string]Size
	OriginalFolder string
	FileName       string
}

// DeleteOptions controls a DeleteFiles call. It must name the same sizes and
// original folder the files were uploaded with.
type DeleteOptions struct {
	Variants       bool
	Sizes          map[string]Size
	OriginalFolder string
}

// Service writes uploads through a storage backend.
type Service struct {
	store  storage.Storage
	opts   Options
	logger *slog.Logger
}

// NewService returns a Service with defaults applied to opts.
func NewService(store storage.Storage, opts Options, logger *slog.Logger) *Service {
	if opts.OriginalFolder == "" {
		opts.OriginalFolder = DefaultOriginalFolder
	}
	if len(opts.Sizes) == 0 {
		opts.Sizes = DefaultSizes()
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = defaultJPEGQuality
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, opts: opts, logger: logger}
}

// OriginalFolder returns the configured label of unresized copies.
func (s *Service) OriginalFolder() string {
	return s.opts.OriginalFolder
}

// Owns reports whether p is a clean path below the upload base path.
func (s *Service) Owns(p string) bool {
	if p == "" || path.Clean(p) != p || strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
		return false
	}
	base := strings.Trim(s.opts.BasePath, "/")
	return base == "" || strings.HasPrefix(p, base+"/")
}

// Sizes returns a copy of the configured variant set.
func (s *Service) Sizes() map[string]Size {
	out := make(map[string]Size, len(s.opts.Sizes))
	for k, v := range s.opts.Sizes {
		out[k] = v
	}
	return out
}

// UploadImage stores src and, when requested, one scaled-down copy per size.
// The result maps the original folder label and each size label to a stored
// path. Without variants it holds only the original. If any write fails the
// files already written by this call are removed.
func (s *Service) UploadImage(ctx context.Context, src Source, folder string, opts ImageOptions) (map[string]string, error) {
	if err := s.checkSize(src); err != nil {
		return nil, err
	}

	mt, err := detect(src)
	if err != nil {
		s.logFailure(ctx, "image upload failed", src, err)
		return nil, err
	}
	format, ok := imageFormat(mt)
	if !ok {
		return nil, ErrNotImage
	}

	originalLabel := opts.OriginalFolder
	if originalLabel == "" {
		originalLabel = s.opts.OriginalFolder
	}
	sizes := opts.Sizes
	if sizes == nil {
		sizes = s.opts.Sizes
	}
	name := s.fileName(opts.FileName, src, mt)

	paths := make(map[string]string, len(sizes)+1)
	if opts.Variants {
		paths[originalLabel] = assetPath(s.opts.BasePath, folder, originalLabel, name)
	} else {
		paths[originalLabel] = assetPath(s.opts.BasePath, folder, "", name)
	}

	written := make([]string, 0, len(sizes)+1)
	fail := func(err error) (map[string]string, error) {
		s.logFailure(ctx, "image upload failed", src, err)
		s.removeWritten(ctx, written)
		return nil, err
	}

	// Each variant decodes the source afresh.
	img, err := decodeImage(src)
	if err != nil {
		return fail(err)
	}
	if err := s.putImage(ctx, paths[originalLabel], img, format); err != nil {
		return fail(err)
	}
	written = append(written, paths[originalLabel])

	if !opts.Variants {
		return paths, nil
	}

	for _, label := range sortedLabels(sizes) {
		if label == originalLabel {
			continue
		}
		img, err := decodeImage(src)
		if err != nil {
			return fail(err)
		}
		p := assetPath(s.opts.BasePath, folder, label, name)
		if err := s.putImage(ctx, p, scaleDown(img, sizes[label]), format); err != nil {
			return fail(err)
		}
		written = append(written, p)
		paths[label] = p
	}
	return paths, nil
}

// UploadFile stores src byte for byte at {base}/{folder}/{name}.
func (s *Service) UploadFile(ctx context.Context, src Source, folder, fileName string) (string, error) {
	if err := s.checkSize(src); err != nil {
		return "", err
	}

	mt, err := detect(src)
	if err != nil {
		s.logFailure(ctx, "file upload failed", src, err)
		return "", err
	}

	p := assetPath(s.opts.BasePath, folder, "", s.fileName(fileName, src, mt))

	r, err := src.Open()
	if err != nil {
		s.logFailure(ctx, "file upload failed", src, err)
		return "", fmt.Errorf("open %q: %w", src.Filename(), err)
	}
	defer r.Close()

	if err := s.store.Put(ctx, p, r, mt.String()); err != nil {
		s.logFailure(ctx, "file upload failed", src, err)
		return "", err
	}
	return p, nil
}

// DeleteFiles removes every path and, with Variants set, the variant derived
// from it for each size label. Missing files are not an error, so repeated
// calls succeed. Every path is attempted; failures are joined.
func (s *Service) DeleteFiles(ctx context.Context, paths []string, opts DeleteOptions) error {
	originalLabel := opts.OriginalFolder
	if originalLabel == "" {
		originalLabel = s.opts.OriginalFolder
	}
	sizes := opts.Sizes
	if sizes == nil {
		sizes = s.opts.Sizes
	}

	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		targets := []string{p}
		if opts.Variants {
			for _, label := range sortedLabels(sizes) {
				if v, ok := DeriveVariantPath(p, originalLabel, label); ok {
					targets = append(targets, v)
				}
			}
		}
		for _, t := range targets {
			if err := s.store.Delete(ctx, t); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", t, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Service) putImage(ctx context.Context, p string, img image.Image, format imaging.Format) error {
	body, err := encodeImage(img, format, s.opts.JPEGQuality)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, p, body, formatContentTypes[format])
}

func (s *Service) checkSize(src Source) error {
	size := src.Size()
	if size == 0 {
		return ErrEmptyFile
	}
	if s.opts.MaxBytes > 0 && size > s.opts.MaxBytes {
		return ErrTooLarge
	}
	return nil
}

// fileName resolves the stored name: the caller's choice, or a random UUID
// keeping the upload's extension. Random names are not checked for
// collisions before writing.
func (s *Service) fileName(requested string, src Source, mt *mimetype.MIME) string {
	if name := cleanFileName(requested); name != "" {
		return name
	}
	return uuid.NewString() + extensionFor(src.Filename(), mt)
}

func (s *Service) removeWritten(ctx context.Context, written []string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range written {
		if err := s.store.Delete(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "orphaned upload left after failed upload",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) logFailure(ctx context.Context, msg string, src Source, err error) {
	s.logger.ErrorContext(ctx, msg,
		slog.String("file_name", src.Filename()),
		slog.String("error", err.Error()),
	)
}

func sortedLabels(sizes map[string]Size) []string {
	labels := make([]string, 0, len(sizes))
	for label := range sizes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
