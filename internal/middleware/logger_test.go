package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

// accessLogRouter wires RequestID, Logger and Auth the way the app does.
func accessLogRouter(log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(RequestIDConfig{TrustUpstream: true}), Logger(log))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	api := r.Group("/api/v1", Auth(stubAuthenticator{"editor": 9}))
	api.GET("/posts/:id", func(c *gin.Context) { c.String(http.StatusOK, "post") })
	api.GET("/broken", func(c *gin.Context) { c.String(http.StatusInternalServerError, "boom") })
	return r
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		token string
		level string
	}{
		{"success", "/api/v1/posts/3", "editor", "level=INFO"},
		{"unauthorized", "/api/v1/posts/3", "", "level=WARN"},
		{"server error", "/api/v1/broken", "editor", "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			accessLogRouter(newTestLogger(&buf)).ServeHTTP(httptest.NewRecorder(), req)

			if out := buf.String(); !strings.Contains(out, tt.level) {
				t.Errorf("expected %s, got:\n%s", tt.level, out)
			}
		})
	}
}

func TestLogger_RecordFields(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/3", nil)
	req.Header.Set("Authorization", "Bearer editor")
	accessLogRouter(newTestLogger(&buf)).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, field := range []string{"method=GET", "path=/api/v1/posts/3", "route=/api/v1/posts/:id", "status=200", "bytes=4", "user_id=9", "latency=", "client_ip="} {
		if !strings.Contains(out, field) {
			t.Errorf("expected %q in:\n%s", field, out)
		}
	}
}

func TestLogger_AnonymousRequestHasNoUserID(t *testing.T) {
	var buf bytes.Buffer
	accessLogRouter(newTestLogger(&buf)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/posts/3", nil))

	if out := buf.String(); strings.Contains(out, "user_id") {
		t.Errorf("anonymous request logged a user id:\n%s", out)
	}
}

func TestLogger_SkipsHealthyHealthChecks(t *testing.T) {
	var buf bytes.Buffer
	accessLogRouter(newTestLogger(&buf)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if buf.Len() != 0 {
		t.Errorf("healthy /health was logged:\n%s", buf.String())
	}
}

// With the context middleware installed, the record carries request_id and
// user_id exactly once.
func TestLogger_ContextAttrsNotDuplicated(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(
		logger.WithConsoleWriter(&buf),
		logger.WithConsoleFormat(logger.FormatText),
		logger.WithConsoleColor(false),
		logger.WithLevel(slog.LevelDebug),
		logger.WithMiddleware(logger.ContextMiddleware()),
	)
	if err != nil {
		t.Fatalf("logger.New error: %v", err)
	}
	defer log.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/3", nil)
	req.Header.Set("Authorization", "Bearer editor")
	req.Header.Set(requestIDHeader, "edge-789")
	accessLogRouter(log.Logger).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if n := strings.Count(out, "request_id=edge-789"); n != 1 {
		t.Errorf("request_id appears %d times, want 1:\n%s", n, out)
	}
	if n := strings.Count(out, "user_id=9"); n != 1 {
		t.Errorf("user_id appears %d times, want 1:\n%s", n, out)
	}
}
