package siteinfo

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/testutil"
)

func setupRouter(t *testing.T) (*gin.Engine, fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	api := r.Group("/api/v1")
	mod := NewModule(NewSiteInfoHandler(f.svc))
	mod.RegisterPublicRoutes(api)
	mod.RegisterRoutes(api)
	return r, f
}

func postForm(t *testing.T, r http.Handler, build func(mw *multipart.Writer)) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	build(mw)
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/site-info", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeInfo(t *testing.T, w *httptest.ResponseRecorder) domain.SiteInfo {
	t.Helper()
	var resp struct {
		Data domain.SiteInfo `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return resp.Data
}

func TestSiteInfoHandler_UpdateAndGet(t *testing.T) {
	r, f := setupRouter(t)

	w := postForm(t, r, func(mw *multipart.Writer) {
		_ = mw.WriteField("site_name", "Acme")
		fw, _ := mw.CreateFormFile("logo_file", "logo.png")
		_, _ = fw.Write(testutil.PNG(t, 32, 32))
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", w.Code, w.Body.String())
	}
	info := decodeInfo(t, w)
	if info.SiteName != "Acme" || info.Logo == nil {
		t.Fatalf("got %+v", info)
	}

	w = postForm(t, r, func(mw *multipart.Writer) {
		_ = mw.WriteField("logo", "")
	})
	if w.Code != http.StatusOK {
		t.Fatalf("clear: status %d: %s", w.Code, w.Body.String())
	}
	if testutil.Exists(f.root, *info.Logo) {
		t.Error("cleared logo still stored")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/site-info", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	got := decodeInfo(t, w)
	if got.SiteName != "Acme" || got.Logo != nil {
		t.Errorf("got %+v", got)
	}
}

func TestSiteInfoHandler_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	w := postForm(t, r, func(mw *multipart.Writer) {
		fw, _ := mw.CreateFormFile("favicon_file", "favicon.png")
		_, _ = fw.Write([]byte("GIF? no, just text"))
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-image: status %d; want 400", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("uploads/")) {
		t.Errorf("response leaks storage paths: %s", w.Body.String())
	}

	w = postForm(t, r, func(mw *multipart.Writer) {
		_ = mw.WriteField("contact_email", "nope")
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad email: status %d; want 400", w.Code)
	}
}

func TestSiteInfoModuleRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mod := NewModule(&SiteInfoHandler{})
	mod.RegisterPublicRoutes(r.Group("/public"))
	mod.RegisterRoutes(r.Group("/admin"))

	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+":"+ri.Path] = true
	}
	if !registered["GET:/public/site-info"] || !registered["POST:/admin/site-info"] {
		t.Errorf("routes = %v", registered)
	}
	if registered["POST:/public/site-info"] {
		t.Error("update route registered on the public group")
	}
	if mod.Permission() != "settings.manage" {
		t.Errorf("Permission() = %q; want settings.manage", mod.Permission())
	}
}
