package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/access"
	"github.com/simp-lee/gocms/internal/config"
	"github.com/simp-lee/gocms/internal/middleware"
	"github.com/simp-lee/gocms/internal/module/auth"
	"github.com/simp-lee/gocms/internal/module/media"
	"github.com/simp-lee/gocms/internal/module/page"
	"github.com/simp-lee/gocms/internal/module/post"
	"github.com/simp-lee/gocms/internal/module/role"
	"github.com/simp-lee/gocms/internal/module/siteinfo"
	"github.com/simp-lee/gocms/internal/module/taxonomy"
	"github.com/simp-lee/gocms/internal/module/user"
	"github.com/simp-lee/gocms/internal/module/widget"
	"github.com/simp-lee/gocms/internal/storage"
	"github.com/simp-lee/gocms/internal/token"
	"github.com/simp-lee/gocms/internal/upload"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	access *access.Store
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, database, blob storage, domain repositories, services,
// handlers, middleware and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	ctx := context.Background()

	// 3. Role grants and assignments live in the rbac tables.
	acl, err := access.New(db)
	if err != nil {
		return nil, fmt.Errorf("setup access control: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := acl.Close(); err != nil {
			slog.Error("access control close error", slog.Any("error", err))
		}
	}()

	// Migrate and seed in debug mode or when asked to.
	if cfg.Server.Mode == gin.DebugMode || cfg.Database.AutoMigrate {
		if err := migrate(ctx, db, acl, &cfg.Auth, log.Logger); err != nil {
			return nil, err
		}
	}

	// 4. Blob storage and the upload pipeline.
	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}
	uploads := upload.NewService(store, upload.OptionsFromConfig(&cfg.Upload), log.Logger)

	// 5. Manual dependency injection: repository → service → handler.
	userRepo := user.NewUserRepository(db)
	roleSvc := role.NewRoleService(role.NewRoleRepository(db), acl)
	modules := []Module{
		user.NewModule(user.NewUserHandler(user.NewUserService(userRepo, acl, uploads))),
		role.NewModule(role.NewRoleHandler(roleSvc)),
		taxonomy.NewModule(taxonomy.NewHandler(
			taxonomy.NewCategoryService(taxonomy.NewCategoryRepository(db)),
			taxonomy.NewTagService(taxonomy.NewTagRepository(db)),
		)),
		post.NewModule(post.NewPostHandler(post.NewPostService(post.NewPostRepository(db), uploads))),
		page.NewModule(page.NewPageHandler(page.NewPageService(page.NewPageRepository(db), uploads))),
		widget.NewModule(widget.NewWidgetHandler(widget.NewWidgetService(widget.NewWidgetRepository(db)))),
		media.NewModule(media.NewMediaHandler(media.NewMediaService(uploads))),
		siteinfo.NewModule(siteinfo.NewSiteInfoHandler(
			siteinfo.NewSiteInfoService(siteinfo.NewSiteInfoRepository(db), uploads, log.Logger),
		)),
	}

	deps := &RouteDeps{Modules: modules, DB: db}
	if cfg.Auth.Enabled {
		tokens, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiryDuration())
		if err != nil {
			return nil, fmt.Errorf("setup tokens: %w", err)
		}
		authSvc := auth.NewService(tokens, userRepo)
		deps.Authenticator = authSvc
		deps.Modules = append(deps.Modules, auth.NewModule(auth.NewHandler(authSvc)))
		if cfg.Auth.RBAC.Enabled {
			deps.Permissions = acl
		}
	} else {
		log.Warn("authentication disabled: the admin API is open to every client")
	}
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		deps.StaticRoot = cfg.Storage.Local.Root
		deps.StaticPrefix = cfg.Storage.Local.PublicPrefix
	}

	// 6. Create Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	if cfg.Upload.MaxSizeMB > 0 {
		engine.MaxMultipartMemory = int64(cfg.Upload.MaxSizeMB) << 20
	}

	corsConfig := resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestID(middleware.RequestIDConfig{}),
		middleware.Logger(log.Logger),
		middleware.CORS(corsConfig),
	)

	// 7. Register all routes.
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		access: acl,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler returns the HTTP handler serving the application routes.
func (a *App) Handler() http.Handler {
	return a.engine
}

// resolveCORSConfig overlays the configured CORS settings on the defaults.
// Release mode without an allowlist denies cross-origin requests.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	switch {
	case len(cfg.AllowOrigins) > 0:
		cors.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		cors.AllowOrigins = []string{}
	}
	if len(cfg.AllowMethods) > 0 {
		cors.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		cors.AllowHeaders = cfg.AllowHeaders
	}
	cors.AllowCredentials = cfg.AllowCredentials
	// Validate has already checked the duration.
	if d, err := time.ParseDuration(cfg.MaxAge); err == nil {
		cors.MaxAge = d
	}
	return cors
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the database
// connection.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		if a.logger != nil {
			a.logger.Info("server started", slog.String("addr", addr))
		} else {
			slog.Info("server started", slog.String("addr", addr))
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown signal received")
		} else {
			slog.Info("shutdown signal received")
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		// Graceful shutdown with 5-second deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			if a.logger != nil {
				a.logger.Error("server shutdown error", slog.Any("error", err))
			} else {
				slog.Error("server shutdown error", slog.Any("error", err))
			}
		}
	}

	if a.access != nil {
		if err := a.access.Close(); err != nil {
			a.logError("access control close error", err)
		}
	}

	// Close database connection.
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				if a.logger != nil {
					a.logger.Error("database close error", slog.Any("error", err))
				} else {
					slog.Error("database close error", slog.Any("error", err))
				}
			} else {
				if a.logger != nil {
					a.logger.Info("database connection closed")
				} else {
					slog.Info("database connection closed")
				}
			}
		}
	}

	if a.logger != nil {
		a.logger.Info("server stopped")
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	} else {
		slog.Info("server stopped")
	}

	if runErr != nil {
		return runErr
	}

	return nil
}

func (a *App) logError(msg string, err error) {
	if a.logger != nil {
		a.logger.Error(msg, slog.Any("error", err))
		return
	}
	slog.Error(msg, slog.Any("error", err))
}
