package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
)

var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)

// GormProductImageRepository implements catalog.ProductImageRepository using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// Save inserts a product image
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// FindByProduct returns the images of one product ordered by position
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductImage, error) {
	var images []*catalog.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&images).Error
	return images, err
}

// DeleteByProduct removes all images of one product
func (r *GormProductImageRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "product_id = ?", productID).Error
}
