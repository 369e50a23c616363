package catalog

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Product is a sellable catalog entry. It is the aggregate root for
// product-related operations and is identified across import runs by its SKU.
type Product struct {
	shared.BaseEntity
	Name             string           `gorm:"type:varchar(200);not null"`
	Slug             string           `gorm:"type:varchar(220);not null;uniqueIndex"`
	SKU              string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description      string           `gorm:"type:text"`
	ShortDescription string           `gorm:"type:varchar(500)"`
	Price            decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	OldPrice         *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock            int              `gorm:"not null;default:0"`
	IsAvailable      bool             `gorm:"not null;default:true"`
	IsFeatured       bool             `gorm:"not null;default:false"`
	IsNew            bool             `gorm:"not null;default:true"`
	IsBestseller     bool             `gorm:"not null;default:false"`
	MainCategoryID   *uuid.UUID       `gorm:"type:uuid;index"`
	Categories       []Category       `gorm:"many2many:product_categories"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. The slug is derived from the name when
// not supplied and the SKU is synthesized when empty.
func NewProduct(name, productSlug, sku string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if productSlug == "" {
		productSlug = slug.Make(name)
	}
	if sku == "" {
		sku = GenerateSKU()
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        productSlug,
		SKU:         sku,
		Price:       price,
		IsAvailable: true,
		IsNew:       true,
	}, nil
}

// SetMainCategory designates the category used for breadcrumbs and listings
func (p *Product) SetMainCategory(categoryID *uuid.UUID) {
	p.MainCategoryID = categoryID
	p.Touch()
}

// InStock reports whether the product can currently be sold
func (p *Product) InStock() bool {
	return p.Stock > 0 && p.IsAvailable
}

// DiscountPercent returns the discount implied by the old price, or 0
func (p *Product) DiscountPercent() int {
	if p.OldPrice == nil || !p.OldPrice.GreaterThan(p.Price) {
		return 0
	}
	ratio := p.OldPrice.Sub(p.Price).Div(*p.OldPrice)
	return int(ratio.Mul(decimal.NewFromInt(100)).IntPart())
}

// GenerateSKU synthesizes a unique product code for rows that did not supply
// one. The timestamp plus random suffix keeps codes unique across runs.
func GenerateSKU() string {
	return fmt.Sprintf("SKU-%s-%04d", time.Now().Format("20060102150405"), 1000+rand.IntN(9000))
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}
