package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/bulk"
)

var _ bulk.ImportRowRepository = (*GormImportRowRepository)(nil)

// GormImportRowRepository implements bulk.ImportRowRepository using GORM
type GormImportRowRepository struct {
	db *gorm.DB
}

// NewGormImportRowRepository creates a new GormImportRowRepository
func NewGormImportRowRepository(db *gorm.DB) *GormImportRowRepository {
	return &GormImportRowRepository{db: db}
}

// Save appends one row record
func (r *GormImportRowRepository) Save(ctx context.Context, record *bulk.ImportRowRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByJob returns a job's row records ordered by row number
func (r *GormImportRowRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*bulk.ImportRowRecord, error) {
	var records []*bulk.ImportRowRecord
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("row_number ASC").
		Find(&records).Error
	return records, err
}

// CountByJob returns how many row records a job produced
func (r *GormImportRowRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bulk.ImportRowRecord{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return count, err
}
