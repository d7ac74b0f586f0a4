package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intentified/web/internal/config"
	"github.com/intentified/web/internal/database"
	"github.com/intentified/web/internal/middleware"
	"github.com/intentified/web/internal/pkg/identity"
	pkgredis "github.com/intentified/web/internal/pkg/redis"
	"github.com/intentified/web/internal/pkg/storage"
	"github.com/intentified/web/internal/web"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg       *config.AppConfig
	router    *gin.Engine
	db        *gorm.DB
	redis     *pkgredis.Client
	identity  identity.Provider
	presigner storage.Presigner
	logger    *zap.Logger
	started   time.Time
}

// New initializes the application: config → DB → Redis → identity →
// storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if rc == nil {
		logger.Info("redis url not set, rate limiting disabled")
	}

	var presigner storage.Presigner
	if cfg.StorageEnabled() {
		client, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		presigner = client
	} else {
		logger.Info("storage bucket not configured, original downloads disabled")
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.Logger(logger))

	app := &App{
		cfg:       cfg,
		router:    router,
		db:        db,
		redis:     rc,
		identity:  identity.New(cfg.Identity),
		presigner: presigner,
		logger:    logger,
		started:   time.Now(),
	}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the database and redis pools.
func (a *App) Shutdown() {
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
}
