package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/middleware"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB
	// Authenticator guards the protected API. Nil leaves it open (auth disabled).
	Authenticator middleware.Authenticator
	// Permissions enforces module permissions. Nil skips RBAC checks.
	Permissions middleware.PermissionChecker
	// StaticRoot and StaticPrefix serve locally stored uploads. Both empty
	// disables the file route (e.g. S3 storage).
	StaticRoot   string
	StaticPrefix string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}

	r.GET("/health", healthHandler(deps.DB))

	if err := registerStaticRoutes(r, deps.StaticPrefix, deps.StaticRoot); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	api := r.Group("/api/v1")
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		if pm, ok := m.(PublicModule); ok {
			pm.RegisterPublicRoutes(api)
		}
	}

	protected := api.Group("")
	if deps.Authenticator != nil {
		protected.Use(middleware.Auth(deps.Authenticator))
	}
	for _, m := range deps.Modules {
		group := protected.Group("")
		if perm := m.Permission(); deps.Permissions != nil && perm != "" {
			group.Use(middleware.RequirePermission(deps.Permissions, perm))
		}
		m.RegisterRoutes(group)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler returns a handler that pings the database and reports status.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		status := "ok"
		code := http.StatusOK

		if db == nil {
			dbStatus = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else if sqlDB, err := db.DB(); err != nil {
			dbStatus = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := sqlDB.PingContext(ctx); err != nil {
				dbStatus = "error"
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"database": dbStatus,
			},
		})
	}
}

// noRouteHandler answers unknown paths with the JSON error envelope.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "not found")
	}
}

func registerStaticRoutes(r *gin.Engine, prefix, root string) error {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	root = strings.TrimSpace(root)
	if prefix == "" && root == "" {
		return nil
	}
	if prefix == "" || root == "" {
		return errors.New("static prefix and root must be set together")
	}
	if !strings.HasPrefix(prefix, "/") || strings.HasPrefix(prefix, "/api/") {
		return fmt.Errorf("invalid static prefix %q", prefix)
	}

	r.GET(prefix+"/*filepath", cacheStaticHandler(prefix, gin.Dir(root, false)))
	r.HEAD(prefix+"/*filepath", cacheStaticHandler(prefix, gin.Dir(root, false)))
	return nil
}

// cacheStaticHandler serves fsys below prefix with a Cache-Control header.
// Stored names are unique per upload, so a path never changes content.
func cacheStaticHandler(prefix string, fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix(prefix, http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
