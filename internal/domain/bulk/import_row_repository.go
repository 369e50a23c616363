package bulk

import (
	"context"

	"github.com/google/uuid"
)

// ImportRowRepository defines the interface for row record persistence
type ImportRowRepository interface {
	Save(ctx context.Context, record *ImportRowRecord) error
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]*ImportRowRecord, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}
