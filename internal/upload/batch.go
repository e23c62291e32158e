package upload

import (
	"context"
	"fmt"
	"log/slog"
)

// ImageField describes an image column of a record and how its files are
// stored.
type ImageField struct {
	Column   string
	Folder   string
	Variants bool
}

func (f ImageField) deleteOptions() DeleteOptions {
	return DeleteOptions{Variants: f.Variants}
}

// Change is a requested edit of one image field: a new file, a clear, or
// neither.
type Change struct {
	File  Source
	Clear bool
}

// Empty reports whether the change leaves the field untouched.
func (c Change) Empty() bool {
	return c.File == nil && !c.Clear
}

// Batch applies image field changes for one record update and remembers
// every file it writes, so Rollback can remove them if the database write
// does not commit. A Batch is not safe for concurrent use.
type Batch struct {
	svc     *Service
	written []writtenFile
}

type writtenFile struct {
	path     string
	variants bool
}

// NewBatch starts tracking a record update.
func (s *Service) NewBatch() *Batch {
	return &Batch{svc: s}
}

// Replace applies one field change and returns the value the column should
// take. Clearing deletes the current files and yields nil. A new source
// deletes the current files before storing the new ones. With neither, the
// field is untouched and changed is false.
func (b *Batch) Replace(ctx context.Context, field ImageField, current *string, src Source, cleared bool) (next *string, changed bool, err error) {
	if !cleared && src == nil {
		return current, false, nil
	}

	if current != nil && *current != "" {
		if err := b.svc.DeleteFiles(ctx, []string{*current}, field.deleteOptions()); err != nil {
			return nil, false, fmt.Errorf("delete %s files: %w", field.Column, err)
		}
	}
	if cleared {
		return nil, true, nil
	}

	paths, err := b.svc.UploadImage(ctx, src, field.Folder, ImageOptions{Variants: field.Variants})
	if err != nil {
		return nil, false, err
	}
	p := paths[b.svc.OriginalFolder()]

	b.written = append(b.written, writtenFile{path: p, variants: field.Variants})
	return &p, true, nil
}

// Apply is Replace driven by a Change.
func (b *Batch) Apply(ctx context.Context, field ImageField, current *string, ch Change) (*string, bool, error) {
	return b.Replace(ctx, field, current, ch.File, ch.Clear)
}

// Written returns the paths stored through this batch.
func (b *Batch) Written() []string {
	out := make([]string, len(b.written))
	for i, w := range b.written {
		out[i] = w.path
	}
	return out
}

// Rollback removes every file written through the batch, including
// variants. Failures are logged and never returned.
func (b *Batch) Rollback(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, w := range b.written {
		if err := b.svc.DeleteFiles(ctx, []string{w.path}, DeleteOptions{Variants: w.variants}); err != nil {
			b.svc.logger.WarnContext(ctx, "orphaned upload left after rollback",
				slog.String("path", w.path),
				slog.String("error", err.Error()),
			)
		}
	}
	b.written = nil
}

// Discard removes the stored files of a deleted record. Failures are logged,
// since the record is already gone.
func (s *Service) Discard(ctx context.Context, field ImageField, paths ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.DeleteFiles(ctx, []string{p}, field.deleteOptions()); err != nil {
			s.logger.WarnContext(ctx, "failed to remove stored file",
				slog.String("field", field.Column),
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}
