// Package app wires configuration, storage and services into the HTTP router and CLI commands.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/catalog"
	"github.com/noah-isme/sma-course-registration/internal/handler"
	"github.com/noah-isme/sma-course-registration/internal/middleware"
	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/internal/repository"
	"github.com/noah-isme/sma-course-registration/internal/service"
	"github.com/noah-isme/sma-course-registration/pkg/cache"
	"github.com/noah-isme/sma-course-registration/pkg/config"
	"github.com/noah-isme/sma-course-registration/pkg/database"
	"github.com/noah-isme/sma-course-registration/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-course-registration/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-course-registration/pkg/middleware/requestid"
)

// SubmissionStore is the backing medium of submission records.
type SubmissionStore interface {
	LoadAll(ctx context.Context) ([]models.SubmissionRecord, error)
	Upsert(ctx context.Context, key models.SubmissionKey, records []models.SubmissionRecord) error
	ReplaceAll(ctx context.Context, records []models.SubmissionRecord) error
}

// App holds the wired services.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Catalog     *catalog.Catalog
	Store       SubmissionStore
	Metrics     *service.MetricsService
	Submissions *service.SubmissionService
	Admin       *service.AdminService
	Reports     *service.ReportService
	Access      *service.AccessService
	closers     []func() error
}

// New loads the catalog, opens the configured store and optional Redis lock, and builds the services.
func New(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*App, error) {
	if logr == nil {
		logr = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logr}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.Catalog = cat

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	guard, err := a.openGuard()
	if err != nil {
		a.Close()
		return nil, err
	}

	validate := validator.New()
	a.Metrics = service.NewMetricsService()
	a.Submissions = service.NewSubmissionService(a.Store, cat, guard, validate, a.Metrics, logr)
	a.Admin = service.NewAdminService(a.Store, guard, validate, a.Metrics, logr)
	a.Reports = service.NewReportService(a.Store, a.Metrics, logr)
	a.Access = service.NewAccessService(validate, logr, service.AccessConfig{
		StudentPassphrase: cfg.Access.StudentPassphrase,
		AdminPassphrase:   cfg.Access.AdminPassphrase,
		TokenSecret:       cfg.JWT.Secret,
		TokenExpiry:       cfg.JWT.Expiration,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, a.Config.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		repo := repository.NewPostgresSubmissionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure submission schema: %w", err)
		}
		a.Store = repo
		a.Logger.Info("submission store ready", zap.String("driver", config.StoreDriverPostgres), zap.String("database", a.Config.Database.Name))
	default:
		repo, err := repository.NewCSVSubmissionRepository(a.Config.Store.CSVPath, a.Logger)
		if err != nil {
			return fmt.Errorf("open csv store: %w", err)
		}
		a.Store = repo
		a.Logger.Info("submission store ready", zap.String("driver", config.StoreDriverCSV), zap.String("path", repo.Path()))
	}
	return nil
}

func (a *App) openGuard() (*service.WriteGuard, error) {
	client, err := cache.NewRedis(a.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	lock := repository.NewLockRepository(client, a.Logger)
	if !lock.Enabled() {
		return service.NewWriteGuard(nil, a.Config.Store.WriteLockTTL, a.Logger), nil
	}
	a.closers = append(a.closers, lock.Close)
	a.Logger.Info("distributed write lock enabled", zap.String("key", service.WriteLockKey))
	return service.NewWriteGuard(lock, a.Config.Store.WriteLockTTL, a.Logger), nil
}

// Close releases database and Redis connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}

// Router builds the gin engine with every route mounted.
func (a *App) Router() *gin.Engine {
	cfg := a.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	metricsHandler := handler.NewMetricsHandler(a.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	catalogHandler := handler.NewCatalogHandler(a.Catalog)
	accessHandler := handler.NewAccessHandler(a.Access)
	registrationHandler := handler.NewRegistrationHandler(a.Submissions)
	adminHandler := handler.NewAdminHandler(a.Admin, a.Reports)

	api := r.Group(cfg.APIPrefix)
	api.GET("/catalog", catalogHandler.List)
	api.POST("/access/token", accessHandler.Token)

	secured := api.Group("")
	secured.Use(middleware.JWT(a.Access))
	secured.GET("/access/me", accessHandler.Me)

	registrations := secured.Group("/registrations")
	registrations.Use(middleware.RequireRoles(models.RoleStudent, models.RoleAdmin))
	registrations.POST("", registrationHandler.Submit)
	registrations.POST("/validate", registrationHandler.Validate)

	admin := secured.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/records", adminHandler.ListRecords)
	admin.PUT("/records", adminHandler.ReplaceRecords)
	admin.GET("/summary", adminHandler.Summary)
	admin.GET("/exports/records", adminHandler.ExportRecords)
	admin.GET("/exports/summary", adminHandler.ExportSummary)

	return r
}
