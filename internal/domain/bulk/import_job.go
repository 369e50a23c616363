package bulk

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ImportMode controls which rows of an upload may touch the catalog
type ImportMode string

const (
	// ModeCreate only creates products; rows matching an existing SKU are skipped
	ModeCreate ImportMode = "create"
	// ModeUpdate only updates products; rows with an unknown SKU are skipped
	ModeUpdate ImportMode = "update"
	// ModeCreateUpdate creates unknown SKUs and updates known ones
	ModeCreateUpdate ImportMode = "create_update"
)

// IsValid checks whether the mode is one of the supported values
func (m ImportMode) IsValid() bool {
	switch m {
	case ModeCreate, ModeUpdate, ModeCreateUpdate:
		return true
	}
	return false
}

// JobStatus is the lifecycle state of an import job
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusError      JobStatus = "error"
)

// IsTerminal reports whether the job can no longer change state
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusError
}

// ImportJob is the aggregate root for one bulk import run. It records the
// uploaded file, the processing options and the per-outcome counters, and
// owns the status transitions of the run.
type ImportJob struct {
	shared.BaseEntity
	Name              string     `gorm:"type:varchar(200);not null"`
	FileKey           string     `gorm:"type:varchar(500);not null"`
	FileName          string     `gorm:"type:varchar(255);not null"`
	Mode              ImportMode `gorm:"type:varchar(20);not null;default:'create_update'"`
	Status            JobStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalRows         int        `gorm:"not null;default:0"`
	ProcessedRows     int        `gorm:"not null;default:0"`
	CreatedCount      int        `gorm:"not null;default:0"`
	UpdatedCount      int        `gorm:"not null;default:0"`
	SkippedCount      int        `gorm:"not null;default:0"`
	ErrorCount        int        `gorm:"not null;default:0"`
	ErrorMessage      string     `gorm:"type:text"`
	LogFileKey        string     `gorm:"type:varchar(500)"`
	SkipExisting      bool       `gorm:"not null;default:false"`
	RefreshImages     bool       `gorm:"not null;default:false"`
	DefaultCategoryID *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt       *time.Time
}

// TableName returns the table name for GORM
func (ImportJob) TableName() string {
	return "import_jobs"
}

// JobOption configures optional import job settings
type JobOption func(*ImportJob)

// WithSkipExisting makes rows whose SKU already exists count as skipped
// instead of being updated.
func WithSkipExisting(skip bool) JobOption {
	return func(j *ImportJob) { j.SkipExisting = skip }
}

// WithRefreshImages controls whether update rows replace the product's
// existing image set. Off by default so a plain re-import never destroys
// curated galleries.
func WithRefreshImages(refresh bool) JobOption {
	return func(j *ImportJob) { j.RefreshImages = refresh }
}

// WithDefaultCategory sets the category assigned to rows that name none
func WithDefaultCategory(id *uuid.UUID) JobOption {
	return func(j *ImportJob) { j.DefaultCategoryID = id }
}

// NewImportJob creates a pending job for an uploaded file
func NewImportJob(name, fileKey, fileName string, mode ImportMode, opts ...JobOption) (*ImportJob, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Import job name cannot be empty")
	}
	if fileKey == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Import file key cannot be empty")
	}
	if mode == "" {
		mode = ModeCreateUpdate
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", "Import mode must be create, update or create_update")
	}

	job := &ImportJob{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		FileKey:    fileKey,
		FileName:   fileName,
		Mode:       mode,
		Status:     StatusPending,
	}
	for _, opt := range opts {
		opt(job)
	}
	return job, nil
}

// Start moves the job from pending to processing
func (j *ImportJob) Start() error {
	if j.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending jobs can start processing")
	}
	j.Status = StatusProcessing
	j.Touch()
	return nil
}

// SetTotalRows records the number of data rows found in the file
func (j *ImportJob) SetTotalRows(n int) {
	j.TotalRows = n
	j.Touch()
}

// RecordOutcome increments the counter matching one processed row
func (j *ImportJob) RecordOutcome(outcome RowOutcome) {
	switch outcome {
	case OutcomeCreated:
		j.CreatedCount++
	case OutcomeUpdated:
		j.UpdatedCount++
	case OutcomeSkipped:
		j.SkippedCount++
	case OutcomeError:
		j.ErrorCount++
	}
	j.ProcessedRows++
	j.Touch()
}

// Finish derives the terminal status from the counters. A run with no row
// errors completes; a run with errors but at least one write is partial;
// a run where nothing was written ends in error.
func (j *ImportJob) Finish() error {
	if j.Status != StatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Only processing jobs can finish")
	}
	switch {
	case j.ErrorCount == 0:
		j.Status = StatusCompleted
	case j.CreatedCount+j.UpdatedCount > 0:
		j.Status = StatusPartial
	default:
		j.Status = StatusError
	}
	now := time.Now()
	j.ProcessedAt = &now
	j.Touch()
	return nil
}

// Fail marks the whole run as failed with a reason. Used when the file could
// not be read at all or the run aborted mid-way.
func (j *ImportJob) Fail(message string) {
	j.Status = StatusError
	j.ErrorMessage = message
	now := time.Now()
	j.ProcessedAt = &now
	j.Touch()
}

// AttachLog records the storage key of the generated row log artifact
func (j *ImportJob) AttachLog(key string) {
	j.LogFileKey = key
	j.Touch()
}

// SuccessRate returns the share of processed rows that were written
func (j *ImportJob) SuccessRate() float64 {
	if j.ProcessedRows == 0 {
		return 0
	}
	return float64(j.CreatedCount+j.UpdatedCount) / float64(j.ProcessedRows) * 100
}
