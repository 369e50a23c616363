package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductPatch is a partial update of a product's mutable fields. A nil
// pointer means "not present in this row": the existing value is kept.
// Import rows that omit a column therefore leave that column untouched.
type ProductPatch struct {
	Name             *string
	Slug             *string
	Description      *string
	ShortDescription *string
	Price            *decimal.Decimal
	OldPrice         *decimal.Decimal
	Stock            *int
	IsAvailable      *bool
	IsFeatured       *bool
	IsNew            *bool
	IsBestseller     *bool
}

// IsEmpty reports whether the patch carries no field at all
func (pp *ProductPatch) IsEmpty() bool {
	return pp.Name == nil && pp.Slug == nil && pp.Description == nil &&
		pp.ShortDescription == nil && pp.Price == nil && pp.OldPrice == nil &&
		pp.Stock == nil && pp.IsAvailable == nil && pp.IsFeatured == nil &&
		pp.IsNew == nil && pp.IsBestseller == nil
}

// Apply writes the present fields of the patch onto the product, validating
// the same invariants as creation.
func (p *Product) Apply(patch ProductPatch) error {
	if patch.Name != nil {
		if err := validateProductName(*patch.Name); err != nil {
			return err
		}
		p.Name = *patch.Name
	}
	if patch.Slug != nil && *patch.Slug != "" {
		p.Slug = *patch.Slug
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ShortDescription != nil {
		p.ShortDescription = *patch.ShortDescription
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		p.Price = *patch.Price
	}
	if patch.OldPrice != nil {
		if patch.OldPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Old price cannot be negative")
		}
		old := *patch.OldPrice
		p.OldPrice = &old
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
		}
		p.Stock = *patch.Stock
	}
	if patch.IsAvailable != nil {
		p.IsAvailable = *patch.IsAvailable
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
	if patch.IsNew != nil {
		p.IsNew = *patch.IsNew
	}
	if patch.IsBestseller != nil {
		p.IsBestseller = *patch.IsBestseller
	}
	p.Touch()
	return nil
}
