package user

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/access"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/testutil"
	"github.com/simp-lee/gocms/internal/upload"
)

type serviceFixture struct {
	svc  UserService
	repo domain.UserRepository
	acl  *access.Store
	db   *gorm.DB
	root string
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	db, acl := setupTestDB(t)
	repo := NewUserRepository(db)
	uploads, root := testutil.Uploads(t)
	return serviceFixture{svc: NewUserService(repo, acl, uploads), repo: repo, acl: acl, db: db, root: root}
}

// syncedRole creates a role row and its rbac grants.
func (f serviceFixture) syncedRole(t *testing.T, slug string, perms ...string) domain.Role {
	t.Helper()
	role := seedRole(t, f.db, slug)
	role.Permissions = perms
	if err := f.acl.SyncRole(&role); err != nil {
		t.Fatalf("SyncRole(%s): %v", slug, err)
	}
	return role
}

func createReq(name, email string) CreateUserRequest {
	return CreateUserRequest{Name: name, Email: email, Password: "s3cret-pass"}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	f := newServiceFixture(t)

	user, err := f.svc.CreateUser(context.Background(), createReq("  Alice  ", " Alice@Example.com "), upload.Change{})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Name != "Alice" || user.Email != "alice@example.com" {
		t.Errorf("got %q/%q; want trimmed name and lowercased email", user.Name, user.Email)
	}
	if !user.IsActive {
		t.Error("new users should default to active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("password hash does not match: %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	f := newServiceFixture(t)
	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"empty name", createReq("  ", "a@example.com")},
		{"short name", createReq("A", "a@example.com")},
		{"bad email", createReq("Alice", "not-an-email")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateUser(context.Background(), tt.req, upload.Change{})
			if !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateUser_WithAvatarAndRoles(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	editor := f.syncedRole(t, "editor", "posts.manage")

	req := createReq("Alice", "alice@example.com")
	req.RoleIDs = []uint{editor.ID}
	user, err := f.svc.CreateUser(ctx, req, upload.Change{File: upload.FromBytes("me.png", testutil.PNG(t, 300, 300))})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0].Slug != "editor" {
		t.Errorf("Roles=%+v; want [editor]", user.Roles)
	}
	if ok, _ := f.acl.HasPermission(ctx, user.ID, "posts.manage"); !ok {
		t.Error("assigned role should grant posts.manage")
	}
	if user.Avatar == nil {
		t.Fatal("expected avatar path")
	}
	if !testutil.Exists(f.root, *user.Avatar) {
		t.Errorf("avatar %s not stored", *user.Avatar)
	}
	small, _ := upload.DeriveVariantPath(*user.Avatar, upload.DefaultOriginalFolder, "small")
	if !testutil.Exists(f.root, small) {
		t.Errorf("avatar variant %s not stored", small)
	}
}

func TestCreateUser_FailureRemovesAvatar(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateUser(ctx, createReq("Alice", "dup@example.com"), upload.Change{}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := f.svc.CreateUser(ctx, createReq("Bob", "dup@example.com"),
		upload.Change{File: upload.FromBytes("bob.png", testutil.PNG(t, 50, 50))})
	if !domain.IsAlreadyExists(err) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if files := testutil.ListDir(t, f.root, "uploads/avatars/original"); len(files) != 0 {
		t.Errorf("avatar files left after failed create: %v", files)
	}
}

func TestCreateUser_UnknownRole(t *testing.T) {
	f := newServiceFixture(t)

	req := createReq("Alice", "alice@example.com")
	req.RoleIDs = []uint{42}
	if _, err := f.svc.CreateUser(context.Background(), req, upload.Change{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.repo.GetByEmail(context.Background(), "alice@example.com"); !domain.IsNotFound(err) {
		t.Errorf("user should not be persisted when roles fail, got %v", err)
	}
}

func TestUpdateUser_KeepsPasswordAndRoles(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	editor := f.syncedRole(t, "editor", "posts.manage")
	req := createReq("Alice", "alice@example.com")
	req.RoleIDs = []uint{editor.ID}
	user, err := f.svc.CreateUser(ctx, req, upload.Change{})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	oldHash := user.PasswordHash

	inactive := false
	updated, err := f.svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Name: "Alice B", Email: "alice@example.com", IsActive: &inactive}, upload.Change{})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != "Alice B" || updated.IsActive {
		t.Errorf("got %+v; want renamed inactive user", updated)
	}
	if updated.PasswordHash != oldHash {
		t.Error("empty password should keep the current hash")
	}
	if len(updated.Roles) != 1 || updated.Roles[0].ID != editor.ID {
		t.Errorf("Roles=%+v; want roles kept when role_ids is absent", updated.Roles)
	}

	none := []uint{}
	updated, err = f.svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Name: "Alice B", Email: "alice@example.com", RoleIDs: &none}, upload.Change{})
	if err != nil {
		t.Fatalf("UpdateUser(clear roles): %v", err)
	}
	if len(updated.Roles) != 0 {
		t.Errorf("Roles=%+v; want none", updated.Roles)
	}
	if ok, _ := f.acl.HasPermission(ctx, user.ID, "posts.manage"); ok {
		t.Error("cleared roles should revoke posts.manage")
	}
}

func TestUpdateUser_ClearAvatar(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user, err := f.svc.CreateUser(ctx, createReq("Alice", "alice@example.com"),
		upload.Change{File: upload.FromBytes("me.png", testutil.PNG(t, 20, 20))})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	old := *user.Avatar

	updated, err := f.svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Name: "Alice", Email: "alice@example.com"}, upload.Change{Clear: true})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Avatar != nil {
		t.Errorf("Avatar=%v; want nil", *updated.Avatar)
	}
	if testutil.Exists(f.root, old) {
		t.Errorf("old avatar %s still stored", old)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.UpdateUser(context.Background(), 999, UpdateUserRequest{Name: "Alice", Email: "a@example.com"}, upload.Change{})
	if !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_RemovesAvatar(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user, err := f.svc.CreateUser(ctx, createReq("Alice", "alice@example.com"),
		upload.Change{File: upload.FromBytes("me.png", testutil.PNG(t, 20, 20))})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := f.svc.DeleteUser(ctx, user.ID, 0); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if testutil.Exists(f.root, *user.Avatar) {
		t.Errorf("avatar %s still stored after delete", *user.Avatar)
	}
}

func TestDeleteUser_RevokesRoles(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	editor := f.syncedRole(t, "editor", "posts.manage")

	req := createReq("Alice", "alice@example.com")
	req.RoleIDs = []uint{editor.ID}
	user, err := f.svc.CreateUser(ctx, req, upload.Change{})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := f.svc.DeleteUser(ctx, user.ID, 0); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	var links int64
	f.db.Table(access.UserRolesTable).Where("user_id = ?", access.Key(user.ID)).Count(&links)
	if links != 0 {
		t.Errorf("%s rows=%d; want 0", access.UserRolesTable, links)
	}
	if ok, _ := f.acl.HasPermission(ctx, user.ID, "posts.manage"); ok {
		t.Error("deleted user still has posts.manage")
	}
}

func TestDeleteUser_Self(t *testing.T) {
	f := newServiceFixture(t)

	user, err := f.svc.CreateUser(context.Background(), createReq("Alice", "alice@example.com"), upload.Change{})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := f.svc.DeleteUser(context.Background(), user.ID, user.ID); !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBulk(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	var ids []uint
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u, err := f.svc.CreateUser(ctx, createReq("User", email), upload.Change{})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		ids = append(ids, u.ID)
	}

	res, err := f.svc.Bulk(ctx, pkg.BulkRequest{Action: "deactivate", IDs: ids[:2]}, 0)
	if err != nil {
		t.Fatalf("Bulk(deactivate): %v", err)
	}
	if res.Affected != 2 {
		t.Errorf("Affected=%d; want 2", res.Affected)
	}
	if u, _ := f.repo.GetByID(ctx, ids[0]); u.IsActive {
		t.Error("user should be inactive")
	}

	if _, err := f.svc.Bulk(ctx, pkg.BulkRequest{Action: "deactivate", IDs: ids}, ids[2]); !domain.IsValidation(err) {
		t.Errorf("deactivating yourself should fail, got %v", err)
	}

	editor := f.syncedRole(t, "editor", "posts.manage")
	if err := f.acl.AssignRoles(ids[1], []uint{editor.ID}); err != nil {
		t.Fatalf("AssignRoles: %v", err)
	}
	res, err = f.svc.Bulk(ctx, pkg.BulkRequest{Action: "DELETE", IDs: []uint{ids[0], ids[1], ids[0], 999}}, 0)
	if err != nil {
		t.Fatalf("Bulk(delete): %v", err)
	}
	if res.Affected != 2 {
		t.Errorf("Affected=%d; want 2", res.Affected)
	}
	if ok, _ := f.acl.HasPermission(ctx, ids[1], "posts.manage"); ok {
		t.Error("bulk deleted user still has posts.manage")
	}

	if _, err := f.svc.Bulk(ctx, pkg.BulkRequest{Action: "promote", IDs: ids}, 0); !domain.IsValidation(err) {
		t.Errorf("unknown action should be a validation error, got %v", err)
	}
}
