package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/gocms/internal/config"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(filepath.Join(t.TempDir(), "storage"))
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	return s
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "relative", in: "uploads/a.jpg", want: "uploads/a.jpg"},
		{name: "leading slash", in: "/uploads/a.jpg", want: "uploads/a.jpg"},
		{name: "parent segments clamp at root", in: "../../etc/passwd", want: "etc/passwd"},
		{name: "inner parent", in: "uploads/x/../a.jpg", want: "uploads/a.jpg"},
		{name: "backslashes", in: `uploads\a.jpg`, want: "uploads/a.jpg"},
		{name: "empty", in: "", wantErr: true},
		{name: "root only", in: "/", wantErr: true},
		{name: "dot", in: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanPath(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPath) {
					t.Fatalf("CleanPath(%q) error = %v, want ErrInvalidPath", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CleanPath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("CleanPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocal_PutExistsDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestLocal(t)

	if err := s.Put(ctx, "uploads/site/logo.png", strings.NewReader("png-bytes"), "image/png"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ok, err := s.Exists(ctx, "uploads/site/logo.png")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Fatal("Exists() = false after Put, want true")
	}

	data, err := os.ReadFile(filepath.Join(s.Root(), "uploads", "site", "logo.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q, want %q", data, "png-bytes")
	}

	if err := s.Delete(ctx, "uploads/site/logo.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	ok, err = s.Exists(ctx, "uploads/site/logo.png")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Fatal("Exists() = true after Delete, want false")
	}
}

func TestLocal_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestLocal(t)

	for _, body := range []string{"first", "second"} {
		if err := s.Put(ctx, "a/b.txt", strings.NewReader(body), "text/plain"); err != nil {
			t.Fatalf("Put(%q) error = %v", body, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(s.Root(), "a", "b.txt"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("stored content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Join(s.Root(), "a"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no leftover temp files)", len(entries))
	}
}

func TestLocal_DeleteMissingIsNil(t *testing.T) {
	s := newTestLocal(t)
	if err := s.Delete(context.Background(), "never/written.jpg"); err != nil {
		t.Fatalf("Delete() of missing file error = %v, want nil", err)
	}
}

func TestLocal_PathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	s, err := NewLocal(filepath.Join(parent, "root"))
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	if err := s.Put(ctx, "../escape.txt", strings.NewReader("x"), "text/plain"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file escaped the root: stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "root", "escape.txt")); err != nil {
		t.Fatalf("file not stored under root: %v", err)
	}
}

func TestLocal_ExistsDirectoryIsFalse(t *testing.T) {
	ctx := context.Background()
	s := newTestLocal(t)
	if err := s.Put(ctx, "dir/file.txt", strings.NewReader("x"), ""); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	ok, err := s.Exists(ctx, "dir")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists(dir) = true, want false")
	}
}

func TestLocal_PutCanceledContext(t *testing.T) {
	s := newTestLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Put(ctx, "a.txt", strings.NewReader("x"), ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("Put() error = %v, want context.Canceled", err)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, &config.StorageConfig{Driver: "local", Local: config.LocalStorageConfig{Root: t.TempDir()}})
	if err != nil {
		t.Fatalf("New(local) error = %v", err)
	}
	if _, ok := s.(*Local); !ok {
		t.Errorf("New(local) = %T, want *Local", s)
	}

	if _, err := New(ctx, &config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Error("New(ftp) error = nil, want error")
	}
	if _, err := New(ctx, nil); err == nil {
		t.Error("New(nil) error = nil, want error")
	}
}
