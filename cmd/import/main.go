package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/fetch"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
)

// cmd/import runs one import job against a local file without going
// through the HTTP server. Useful for backfills and local testing.
func main() {
	var (
		filePath        string
		mode            string
		name            string
		skipExisting    bool
		refreshImages   bool
		defaultCategory string
		timeout         time.Duration
	)

	flag.StringVar(&filePath, "file", "", "Path to the CSV/XLS/XLSX file to import (required)")
	flag.StringVar(&mode, "mode", "create_update", "Import mode: create, update or create_update")
	flag.StringVar(&name, "name", "", "Job name (default: file name)")
	flag.BoolVar(&skipExisting, "skip-existing", false, "Skip rows whose SKU already exists")
	flag.BoolVar(&refreshImages, "refresh-images", false, "Replace existing product images on update")
	flag.StringVar(&defaultCategory, "default-category", "", "Slug of the category applied to rows without one")
	flag.DurationVar(&timeout, "timeout", 30*time.Minute, "Overall run timeout")
	flag.Parse()

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: import -file <path> [-mode create|update|create_update] [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal("Failed to read import file", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	blobs, err := newBlobStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize blob storage", zap.Error(err))
	}

	fetcher := fetch.NewClient(
		fetch.WithTimeout(cfg.Import.FetchTimeout),
		fetch.WithMaxBodySize(cfg.Import.MaxFetchSize),
	)

	jobRepo := persistence.NewGormImportJobRepository(db.DB)
	rowRepo := persistence.NewGormImportRowRepository(db.DB)
	catalogStore := persistence.NewGormCatalogStore(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)

	service := importer.NewService(jobRepo, rowRepo, catalogStore, blobs, fetcher,
		importer.WithLogger(log))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	input := importer.CreateJobInput{
		Name:          name,
		FileName:      filepath.Base(filePath),
		Data:          data,
		Mode:          bulk.ImportMode(mode),
		SkipExisting:  skipExisting,
		RefreshImages: refreshImages,
	}
	if defaultCategory != "" {
		category, err := categoryRepo.FindBySlug(ctx, defaultCategory)
		if err != nil {
			log.Fatal("Default category not found", zap.String("slug", defaultCategory))
		}
		input.DefaultCategoryID = &category.ID
	}

	job, err := service.CreateJob(ctx, input)
	if err != nil {
		log.Fatal("Failed to create import job", zap.Error(err))
	}

	if err := service.Run(ctx, job); err != nil {
		log.Fatal("Import run failed", zap.Error(err))
	}

	fmt.Printf("Job %s finished: %s\n", job.ID, job.Status)
	fmt.Printf("  total:   %d\n", job.TotalRows)
	fmt.Printf("  created: %d\n", job.CreatedCount)
	fmt.Printf("  updated: %d\n", job.UpdatedCount)
	fmt.Printf("  skipped: %d\n", job.SkippedCount)
	fmt.Printf("  errors:  %d\n", job.ErrorCount)
	if job.LogFileKey != "" {
		fmt.Printf("  log:     %s\n", job.LogFileKey)
	}
	if job.ErrorMessage != "" {
		fmt.Printf("  message: %s\n", job.ErrorMessage)
	}
}

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
