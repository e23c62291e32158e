package user

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/upload"
)

// --- mock service ---

type mockService struct {
	users     map[uint]*domain.User
	createErr error

	lastParams query.Params
	lastAvatar upload.Change
	lastUpdate UpdateUserRequest
	lastActor  uint
	lastBulk   pkg.BulkRequest
}

func newMockService() *mockService {
	return &mockService{users: make(map[uint]*domain.User)}
}

func (m *mockService) CreateUser(_ context.Context, req CreateUserRequest, avatar upload.Change) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.lastAvatar = avatar
	u := &domain.User{BaseModel: domain.BaseModel{ID: uint(len(m.users) + 1)}, Name: req.Name, Email: req.Email}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockService) GetUser(_ context.Context, id uint) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockService) ListUsers(_ context.Context, p query.Params) (*query.Result[domain.User], error) {
	m.lastParams = p
	items := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		items = append(items, *u)
	}
	return query.NewResult(items, int64(len(items)), 1, query.DefaultRows), nil
}

func (m *mockService) UpdateUser(_ context.Context, id uint, req UpdateUserRequest, avatar upload.Change) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.lastUpdate = req
	m.lastAvatar = avatar
	u.Name = req.Name
	return u, nil
}

func (m *mockService) DeleteUser(_ context.Context, id, actorID uint) error {
	m.lastActor = actorID
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockService) Bulk(_ context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	m.lastBulk = req
	m.lastActor = actorID
	return &pkg.BulkResult{Action: req.Action, Affected: int64(len(req.IDs))}, nil
}

// setupAPIRouter creates a gin engine with REST API routes for handler testing.
func setupAPIRouter(h *UserHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(7))
		c.Next()
	})

	api := r.Group("/api/v1/users")
	api.POST("", h.Create)
	api.POST("/bulk", h.Bulk)
	api.GET("", h.List)
	api.GET("/:id", h.Get)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)

	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Create(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodPost, "/api/v1/users", `{"name":"Alice","email":"alice@example.com","password":"s3cret-pass"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != http.StatusCreated {
		t.Errorf("expected response code 201, got %d", resp.Code)
	}
	if resp.Message != "success" {
		t.Errorf("expected message 'success', got %q", resp.Message)
	}
	if !svc.lastAvatar.Empty() {
		t.Error("JSON request should carry no avatar change")
	}
}

func TestUserHandler_Create_Multipart(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(NewUserHandler(svc))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("name", "Alice")
	_ = mw.WriteField("email", "alice@example.com")
	_ = mw.WriteField("password", "s3cret-pass")
	fw, _ := mw.CreateFormFile("avatar_file", "me.png")
	_, _ = fw.Write([]byte("png"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastAvatar.File == nil || svc.lastAvatar.File.Filename() != "me.png" {
		t.Errorf("avatar change = %+v; want file me.png", svc.lastAvatar)
	}
}

func TestUserHandler_Create_ValidationError(t *testing.T) {
	r := setupAPIRouter(NewUserHandler(newMockService()))

	w := doJSON(r, http.MethodPost, "/api/v1/users", `{"name":"","email":"","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp pkg.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := resp.Errors[field]; !ok {
			t.Errorf("expected %q field in errors map", field)
		}
	}
}

func TestUserHandler_Create_ServiceError(t *testing.T) {
	svc := newMockService()
	svc.createErr = domain.NewAppError(domain.CodeAlreadyExists, "email already exists", nil)
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodPost, "/api/v1/users", `{"name":"Alice","email":"alice@example.com","password":"s3cret-pass"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestUserHandler_Get(t *testing.T) {
	svc := newMockService()
	svc.users[1] = &domain.User{BaseModel: domain.BaseModel{ID: 1}, Name: "Alice", Email: "alice@example.com"}
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodGet, "/api/v1/users/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"name":"Alice"`) {
		t.Errorf("body %s should contain the user", w.Body.String())
	}
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	r := setupAPIRouter(NewUserHandler(newMockService()))

	w := doJSON(r, http.MethodGet, "/api/v1/users/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	r := setupAPIRouter(NewUserHandler(newMockService()))

	w := doJSON(r, http.MethodGet, "/api/v1/users/9", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUserHandler_List_PassesFilterBag(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodGet, "/api/v1/users?search=ali&role_id[]=2&role_id[]=3&sort_by=name", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := svc.lastParams.Values("role_id"); len(got) != 2 {
		t.Errorf("role_id values = %v; want 2", got)
	}
	if svc.lastParams.First("search") != "ali" {
		t.Errorf("search = %q; want ali", svc.lastParams.First("search"))
	}
}

func TestUserHandler_Update_RoleIDs(t *testing.T) {
	svc := newMockService()
	svc.users[1] = &domain.User{BaseModel: domain.BaseModel{ID: 1}, Name: "Alice", Email: "alice@example.com"}
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodPut, "/api/v1/users/1", `{"name":"Alice","email":"alice@example.com","role_ids":[2,3]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastUpdate.RoleIDs == nil || len(*svc.lastUpdate.RoleIDs) != 2 {
		t.Errorf("RoleIDs = %v; want [2 3]", svc.lastUpdate.RoleIDs)
	}

	w = doJSON(r, http.MethodPut, "/api/v1/users/1", `{"name":"Alice","email":"alice@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if svc.lastUpdate.RoleIDs != nil {
		t.Errorf("RoleIDs = %v; want nil when omitted", *svc.lastUpdate.RoleIDs)
	}
}

func TestUserHandler_Update_MultipartClearsAvatar(t *testing.T) {
	svc := newMockService()
	svc.users[1] = &domain.User{BaseModel: domain.BaseModel{ID: 1}, Name: "Alice", Email: "alice@example.com"}
	r := setupAPIRouter(NewUserHandler(svc))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("name", "Alice")
	_ = mw.WriteField("email", "alice@example.com")
	_ = mw.WriteField("avatar", "")
	_ = mw.WriteField("role_ids", "4")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/1", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !svc.lastAvatar.Clear {
		t.Error("empty avatar field should clear the avatar")
	}
	if svc.lastUpdate.RoleIDs == nil || len(*svc.lastUpdate.RoleIDs) != 1 || (*svc.lastUpdate.RoleIDs)[0] != 4 {
		t.Errorf("RoleIDs = %v; want [4]", svc.lastUpdate.RoleIDs)
	}
}

func TestUserHandler_Delete_PassesActor(t *testing.T) {
	svc := newMockService()
	svc.users[1] = &domain.User{BaseModel: domain.BaseModel{ID: 1}}
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodDelete, "/api/v1/users/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if svc.lastActor != 7 {
		t.Errorf("actor = %d; want 7", svc.lastActor)
	}
}

func TestUserHandler_Bulk(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(NewUserHandler(svc))

	w := doJSON(r, http.MethodPost, "/api/v1/users/bulk", `{"action":"activate","ids":[1,2]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastBulk.Action != "activate" || len(svc.lastBulk.IDs) != 2 || svc.lastActor != 7 {
		t.Errorf("bulk = %+v actor %d", svc.lastBulk, svc.lastActor)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/users/bulk", `{"action":"activate","ids":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty ids: expected status 400, got %d", w.Code)
	}
}
