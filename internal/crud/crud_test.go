package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/testutil"
)

var tagFilter = query.NewFilter("tags", query.SortSpec{Columns: []string{"id", "title"}, Default: "title"}).
	Search("search", "title", "slug")

func newTagRepo(t *testing.T) *Repository[domain.Tag] {
	t.Helper()
	return New[domain.Tag](testutil.OpenDB(t, &domain.Tag{}), tagFilter)
}

func TestRepository_CRUD(t *testing.T) {
	repo := newTagRepo(t)
	ctx := context.Background()

	tag := &domain.Tag{Title: "Go", Slug: "go"}
	if err := repo.Create(ctx, tag); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &domain.Tag{Title: "Golang", Slug: "go"}); !domain.IsAlreadyExists(err) {
		t.Errorf("duplicate slug: expected ErrAlreadyExists, got %v", err)
	}

	tag.Title = "Go language"
	if err := repo.Update(ctx, tag); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Go language" {
		t.Errorf("Title=%q; want Go language", got.Title)
	}

	if err := repo.Delete(ctx, tag.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, tag.ID); !domain.IsNotFound(err) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestRepository_ListUsesFilter(t *testing.T) {
	repo := newTagRepo(t)
	ctx := context.Background()

	for _, title := range []string{"Rust", "Go", "Python"} {
		if err := repo.Create(ctx, &domain.Tag{Title: title, Slug: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	result, err := repo.List(ctx, query.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Items) != 3 || result.Items[0].Title != "Go" {
		t.Errorf("default sort by title: got %+v", result.Items)
	}

	result, err = repo.List(ctx, query.Params{"search": {"th"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 1 || result.Items[0].Title != "Python" {
		t.Errorf("search: got %+v", result.Items)
	}
}

func TestRepository_IDSetOperations(t *testing.T) {
	repo := newTagRepo(t)
	ctx := context.Background()

	var ids []uint
	for _, slug := range []string{"a", "b", "c"} {
		tag := &domain.Tag{Title: slug, Slug: slug}
		if err := repo.Create(ctx, tag); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, tag.ID)
	}

	n, err := repo.UpdateByIDs(ctx, ids[:2], map[string]any{"title": "renamed"})
	if err != nil || n != 2 {
		t.Fatalf("UpdateByIDs = %d, %v; want 2, nil", n, err)
	}
	found, err := repo.FindByIDs(ctx, append(ids, 999))
	if err != nil || len(found) != 3 {
		t.Fatalf("FindByIDs = %d, %v; want 3, nil", len(found), err)
	}

	n, err = repo.DeleteByIDs(ctx, []uint{ids[0], 999})
	if err != nil || n != 1 {
		t.Errorf("DeleteByIDs = %d, %v; want 1, nil", n, err)
	}
}

func TestRepository_TransactRollsBack(t *testing.T) {
	repo := newTagRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Transact(ctx, func(tx *Repository[domain.Tag]) error {
		if err := tx.Create(ctx, &domain.Tag{Title: "x", Slug: "x"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transact error = %v; want boom", err)
	}
	result, _ := repo.List(ctx, query.Params{})
	if result.Total != 0 {
		t.Errorf("Total=%d; want 0 after rollback", result.Total)
	}
}
