package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/shared"
)

var _ bulk.ImportJobRepository = (*GormImportJobRepository)(nil)

var importJobSortFields = map[string]bool{
	"created_at":   true,
	"processed_at": true,
	"status":       true,
	"total_rows":   true,
}

// GormImportJobRepository implements bulk.ImportJobRepository using GORM
type GormImportJobRepository struct {
	db *gorm.DB
}

// NewGormImportJobRepository creates a new GormImportJobRepository
func NewGormImportJobRepository(db *gorm.DB) *GormImportJobRepository {
	return &GormImportJobRepository{db: db}
}

// Save inserts a new import job
func (r *GormImportJobRepository) Save(ctx context.Context, job *bulk.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Update persists job state and counters
func (r *GormImportJobRepository) Update(ctx context.Context, job *bulk.ImportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// FindByID finds an import job by ID
func (r *GormImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportJob, error) {
	var job bulk.ImportJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAll returns import jobs, newest first by default
func (r *GormImportJobRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*bulk.ImportJob], error) {
	query := r.db.WithContext(ctx).Model(&bulk.ImportJob{})

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*bulk.ImportJob]{}, err
	}

	query = applyOrdering(query, filter, importJobSortFields)
	query = applyPagination(query, filter)

	var jobs []*bulk.ImportJob
	if err := query.Find(&jobs).Error; err != nil {
		return shared.Paginated[*bulk.ImportJob]{}, err
	}
	return shared.NewPaginated(jobs, total, filter.Page, filter.PageSize), nil
}

// Delete removes an import job and its row records
func (r *GormImportJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&bulk.ImportRowRecord{}, "job_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&bulk.ImportJob{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
