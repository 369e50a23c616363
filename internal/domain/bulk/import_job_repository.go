package bulk

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ImportJobRepository defines the interface for import job persistence
type ImportJobRepository interface {
	Save(ctx context.Context, job *ImportJob) error
	Update(ctx context.Context, job *ImportJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*ImportJob, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*ImportJob], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
