package siteinfo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/testutil"
	"github.com/simp-lee/gocms/internal/upload"
)

type fixture struct {
	db   *gorm.DB
	svc  SiteInfoService
	root string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenDB(t, &domain.SiteInfo{})
	repo := NewSiteInfoRepository(db)
	if err := repo.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	uploads, root := testutil.Uploads(t)
	return fixture{db: db, svc: NewSiteInfoService(repo, uploads, testutil.DiscardLogger()), root: root}
}

func strPtr(s string) *string { return &s }

func pngSource(t *testing.T, name string) upload.Source {
	return upload.FromBytes(name, testutil.PNG(t, 64, 64))
}

func TestGet_Unseeded(t *testing.T) {
	db := testutil.OpenDB(t, &domain.SiteInfo{})
	uploads, _ := testutil.Uploads(t)
	svc := NewSiteInfoService(NewSiteInfoRepository(db), uploads, testutil.DiscardLogger())

	info, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.ID != domain.SiteInfoID || info.SiteName != "" {
		t.Errorf("got %+v; want empty settings", info)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.OpenDB(t, &domain.SiteInfo{})
	repo := NewSiteInfoRepository(db)
	for i := 0; i < 2; i++ {
		if err := repo.Seed(context.Background()); err != nil {
			t.Fatalf("Seed #%d: %v", i+1, err)
		}
	}
	var n int64
	db.Model(&domain.SiteInfo{}).Count(&n)
	if n != 1 {
		t.Errorf("rows = %d; want 1", n)
	}
}

func TestUpdate_FieldsAndImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.svc.Update(ctx, UpdateInput{
		Fields: SiteInfoRequest{SiteName: strPtr(" Acme "), ContactEmail: strPtr("Hello@Acme.test")},
		Files: map[string]upload.Source{
			"logo":    pngSource(t, "logo.png"),
			"favicon": pngSource(t, "favicon.png"),
		},
	}, 3)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if info.SiteName != "Acme" || info.ContactEmail != "hello@acme.test" {
		t.Errorf("got name=%q email=%q", info.SiteName, info.ContactEmail)
	}
	if info.UpdatedBy == nil || *info.UpdatedBy != 3 {
		t.Errorf("UpdatedBy = %v; want 3", info.UpdatedBy)
	}
	if info.Logo == nil || info.Favicon == nil || info.OGImage != nil {
		t.Fatalf("images = logo %v favicon %v og %v", info.Logo, info.Favicon, info.OGImage)
	}
	if small, ok := upload.DeriveVariantPath(*info.Logo, "original", "small"); !ok || !testutil.Exists(f.root, small) {
		t.Errorf("logo variant %q missing", small)
	}
	if small, _ := upload.DeriveVariantPath(*info.Favicon, "original", "small"); testutil.Exists(f.root, small) {
		t.Errorf("favicon variant %q written; favicons are stored as uploaded", small)
	}

	// Nil fields and untouched images keep their values.
	next, err := f.svc.Update(ctx, UpdateInput{Fields: SiteInfoRequest{Tagline: strPtr("Things")}}, 3)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if next.SiteName != "Acme" || next.Tagline != "Things" || *next.Logo != *info.Logo {
		t.Errorf("got %+v", next)
	}
	if !testutil.Exists(f.root, *info.Logo) {
		t.Error("untouched logo was deleted")
	}
}

func TestUpdate_ClearImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.svc.Update(ctx, UpdateInput{Files: map[string]upload.Source{"og_image": pngSource(t, "og.png")}}, 0)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	old := *info.OGImage

	info, err = f.svc.Update(ctx, UpdateInput{Cleared: []string{"og_image"}}, 0)
	if err != nil {
		t.Fatalf("Update(clear): %v", err)
	}
	if info.OGImage != nil {
		t.Errorf("OGImage = %q; want nil", *info.OGImage)
	}
	if testutil.Exists(f.root, old) {
		t.Error("cleared og image still stored")
	}
	if files := testutil.ListDir(t, f.root, "uploads/site/small"); len(files) != 0 {
		t.Errorf("variants left behind: %v", files)
	}
}

func TestUpdate_FileWinsOverClear(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.Update(context.Background(), UpdateInput{
		Cleared: []string{"logo"},
		Files:   map[string]upload.Source{"logo": pngSource(t, "logo.png")},
	}, 0)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if info.Logo == nil {
		t.Error("Logo = nil; want the uploaded file")
	}
}

func TestUpdate_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, UpdateInput{Fields: SiteInfoRequest{ContactEmail: strPtr("not-an-email")}}, 0)
	if !domain.IsValidation(err) {
		t.Errorf("bad email: error = %v; want validation", err)
	}

	_, err = f.svc.Update(ctx, UpdateInput{
		Fields: SiteInfoRequest{SiteName: strPtr("Changed")},
		Files: map[string]upload.Source{
			"logo":    pngSource(t, "logo.png"),
			"favicon": upload.FromBytes("favicon.ico", []byte("plain text, not an icon")),
		},
	}, 0)
	if !domain.IsValidation(err) {
		t.Fatalf("non-image favicon: error = %v; want validation", err)
	}
	info, err := f.svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.SiteName != "" || info.Logo != nil {
		t.Errorf("record changed by failed update: %+v", info)
	}
	if files := testutil.ListDir(t, f.root, "uploads/site/original"); len(files) != 0 {
		t.Errorf("files left behind: %v", files)
	}
}

// A failed database write after clearing the logo and uploading a new
// favicon rolls the record back and removes the new favicon.
func TestUpdate_DatabaseFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.svc.Update(ctx, UpdateInput{
		Fields: SiteInfoRequest{SiteName: strPtr("Acme")},
		Files: map[string]upload.Source{
			"logo":    pngSource(t, "logo.png"),
			"favicon": pngSource(t, "favicon.png"),
		},
	}, 0)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	errWrite := errors.New("disk I/O error")
	if err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errWrite)
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = f.svc.Update(ctx, UpdateInput{
		Fields:  SiteInfoRequest{SiteName: strPtr("Broken")},
		Cleared: []string{"logo"},
		Files:   map[string]upload.Source{"favicon": pngSource(t, "favicon-2.png")},
	}, 0)
	if !domain.IsInternal(err) {
		t.Fatalf("error = %v; want internal", err)
	}
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Message != "failed to update site info" {
		t.Errorf("message = %v; want generic failure", err)
	}
	if !errors.Is(err, errWrite) {
		t.Errorf("error does not wrap the cause: %v", err)
	}

	_ = f.db.Callback().Update().Remove("test:fail_update")

	after, err := f.svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.SiteName != "Acme" {
		t.Errorf("SiteName = %q; want Acme", after.SiteName)
	}
	if after.Favicon == nil || *after.Favicon != *before.Favicon {
		t.Errorf("Favicon = %v; want %q", after.Favicon, *before.Favicon)
	}
	if after.Logo == nil || *after.Logo != *before.Logo {
		t.Errorf("Logo = %v; want %q", after.Logo, *before.Logo)
	}
	// Old files were deleted before the write failed, and the new favicon
	// with its variants was removed by the rollback.
	if files := testutil.ListFiles(t, f.root, "uploads/site"); len(files) != 0 {
		t.Errorf("files left under uploads/site: %v", files)
	}
}
