// Package importer implements the bulk product import pipeline: it reads an
// uploaded tabular file, validates and normalizes each row, upserts catalog
// entries by SKU, attaches images and produces a per-row audit trail with a
// downloadable log artifact.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service orchestrates import jobs. One Run call processes one job
// synchronously from pending to a terminal status.
type Service struct {
	jobs     bulk.ImportJobRepository
	rows     bulk.ImportRowRepository
	store    CatalogStore
	blobs    BlobStorage
	fetcher  Fetcher
	progress ProgressReporter
	logger   *zap.Logger
}

// ServiceOption configures optional Service collaborators
type ServiceOption func(*Service)

// WithProgressReporter wires a live progress sink polled by the admin surface
func WithProgressReporter(p ProgressReporter) ServiceOption {
	return func(s *Service) { s.progress = p }
}

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates the import pipeline service
func NewService(
	jobs bulk.ImportJobRepository,
	rows bulk.ImportRowRepository,
	store CatalogStore,
	blobs BlobStorage,
	fetcher Fetcher,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		jobs:     jobs,
		rows:     rows,
		store:    store,
		blobs:    blobs,
		fetcher:  fetcher,
		progress: NopProgressReporter{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJobInput carries one uploaded file and its processing options
type CreateJobInput struct {
	Name              string
	FileName          string
	Data              []byte
	Mode              bulk.ImportMode
	SkipExisting      bool
	RefreshImages     bool
	DefaultCategoryID *uuid.UUID
}

// CreateJob stores the uploaded file and registers a pending job for it
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (*bulk.ImportJob, error) {
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Import file cannot be empty")
	}
	if input.DefaultCategoryID != nil {
		if _, err := s.store.FindCategoryByID(ctx, *input.DefaultCategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Default category does not exist")
		}
	}

	key := fmt.Sprintf("imports/uploads/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(input.FileName)))
	if err := s.blobs.Upload(ctx, key, input.Data, uploadContentType(input.FileName)); err != nil {
		return nil, fmt.Errorf("failed to store import file: %w", err)
	}

	name := input.Name
	if name == "" {
		name = input.FileName
	}
	job, err := bulk.NewImportJob(name, key, input.FileName, input.Mode,
		bulk.WithSkipExisting(input.SkipExisting),
		bulk.WithRefreshImages(input.RefreshImages),
		bulk.WithDefaultCategory(input.DefaultCategoryID),
	)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save import job: %w", err)
	}

	s.logger.Info("import job created",
		zap.String("job_id", job.ID.String()),
		zap.String("file", input.FileName),
		zap.String("mode", string(job.Mode)))
	return job, nil
}

// GetJob returns one job by id
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*bulk.ImportJob, error) {
	return s.jobs.FindByID(ctx, id)
}

// ListJobs returns jobs page by page, newest first
func (s *Service) ListJobs(ctx context.Context, filter shared.Filter) (shared.Paginated[*bulk.ImportJob], error) {
	return s.jobs.FindAll(ctx, filter)
}

// GetRowRecords returns the audit entries of one job ordered by row number
func (s *Service) GetRowRecords(ctx context.Context, jobID uuid.UUID) ([]*bulk.ImportRowRecord, error) {
	return s.rows.FindByJob(ctx, jobID)
}

// DownloadLog returns the generated log artifact of a finished job
func (s *Service) DownloadLog(ctx context.Context, jobID uuid.UUID) ([]byte, string, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, "", err
	}
	if job.LogFileKey == "" {
		return nil, "", shared.NewDomainError("LOG_NOT_READY", "Import log has not been generated yet")
	}
	data, err := s.blobs.Download(ctx, job.LogFileKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download import log: %w", err)
	}
	return data, fmt.Sprintf("import_log_%s.csv", job.ID.String()), nil
}

func uploadContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	}
	return "application/octet-stream"
}
