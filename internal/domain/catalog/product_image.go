package catalog

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductImage is one image attached to a product, ordered by Position.
// At most one image per product is flagged as main.
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Path      string    `gorm:"type:varchar(500);not null"`
	AltText   string    `gorm:"type:varchar(200)"`
	IsMain    bool      `gorm:"not null;default:false"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates an image record pointing at a storage-relative path
func NewProductImage(productID uuid.UUID, path string, isMain bool, position int) (*ProductImage, error) {
	if path == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE_PATH", "Image path cannot be empty")
	}
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Path:       path,
		IsMain:     isMain,
		Position:   position,
	}, nil
}
