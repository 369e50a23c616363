package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductImageRepository defines the interface for product image persistence
type ProductImageRepository interface {
	Save(ctx context.Context, image *ProductImage) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*ProductImage, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
