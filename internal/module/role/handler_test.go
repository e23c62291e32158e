package role

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	r := gin.New()
	NewModule(NewRoleHandler(svc)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleHandler_CRUD(t *testing.T) {
	r := setupRouter(t)

	w := serve(r, http.MethodPost, "/api/v1/roles", `{"name":"Editor","permission_ids":[1]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"slug":"editor"`) {
		t.Errorf("create body %s should carry the derived slug", w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/v1/roles?search=edit", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("list: status %d body %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodPost, "/api/v1/roles", `{"name":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid create: status %d; want 400", w.Code)
	}

	w = serve(r, http.MethodGet, "/api/v1/roles/999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing role: status %d; want 404", w.Code)
	}
}

func TestRoleHandler_Permissions(t *testing.T) {
	r := setupRouter(t)

	w := serve(r, http.MethodGet, "/api/v1/permissions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "posts.manage") {
		t.Errorf("body %s should list seeded permissions", w.Body.String())
	}
}

func TestRoleHandler_BulkUnknownAction(t *testing.T) {
	r := setupRouter(t)

	w := serve(r, http.MethodPost, "/api/v1/roles/bulk", `{"action":"archive","ids":[1]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d; want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "delete") {
		t.Errorf("body %s should list supported actions", w.Body.String())
	}
}

func TestNewModule_PanicsOnNilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewModule() expected panic for nil handler, got none")
		}
	}()
	_ = NewModule(nil)
}
