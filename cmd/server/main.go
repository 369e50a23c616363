package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/fetch"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	jobRepo := persistence.NewGormImportJobRepository(db.DB)
	rowRepo := persistence.NewGormImportRowRepository(db.DB)
	catalogStore := persistence.NewGormCatalogStore(db.DB)

	// Blob storage backend
	blobs, err := newBlobStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize blob storage", zap.Error(err))
	}

	// Image fetcher
	fetcher := fetch.NewClient(
		fetch.WithTimeout(cfg.Import.FetchTimeout),
		fetch.WithMaxBodySize(cfg.Import.MaxFetchSize),
	)

	// Import service options; Redis progress reporting is optional
	serviceOpts := []importer.ServiceOption{importer.WithLogger(log)}
	if reporter, err := cache.NewRedisProgressReporter(&cfg.Redis, log); err != nil {
		log.Warn("Redis unavailable, live import progress disabled", zap.Error(err))
	} else {
		defer func() {
			_ = reporter.Close()
		}()
		serviceOpts = append(serviceOpts, importer.WithProgressReporter(reporter))
	}

	importService := importer.NewService(jobRepo, rowRepo, catalogStore, blobs, fetcher, serviceOpts...)

	// HTTP handlers
	importHandler := handler.NewImportHandler(importService, log)
	catalogHandler := handler.NewCatalogHandler(productRepo, categoryRepo, imageRepo)
	systemHandler := handler.NewSystemHandler()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.Import.MaxUploadSize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(importHandler).
		Register(catalogHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newBlobStorage selects the storage backend from config
func newBlobStorage(cfg *config.Config, log *zap.Logger) (importer.BlobStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s3store, err := storage.NewS3BlobStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3store, nil
	default:
		return storage.NewLocalBlobStorage(cfg.Storage.LocalDir)
	}
}

// healthHandler reports liveness including database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
