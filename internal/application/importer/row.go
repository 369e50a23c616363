package importer

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/tabular"
)

// maxImages is the number of ordinal image columns scanned per row
const maxImages = 5

// imageRef is one ordinal image reference from a row
type imageRef struct {
	Position int
	Value    string
}

// rowFields is the validated field set of one import row. Patch carries only
// the columns that were present, so updates leave untouched columns intact.
type rowFields struct {
	Name       string
	SKU        string
	Patch      catalog.ProductPatch
	Categories []string
	Images     []imageRef
}

// parseRow validates and coerces one normalized row. Name and price are
// required; a missing or unparseable price fails the row. Optional numeric
// columns that do not parse are dropped rather than failed.
func parseRow(row tabular.Row) (*rowFields, error) {
	fields := &rowFields{}

	name, ok := row.Get("name")
	if !ok {
		return nil, shared.NewDomainError("MISSING_NAME", fmt.Sprintf("Row %d: name is required", row.Number))
	}
	fields.Name = name

	priceRaw, ok := row.Get("price")
	if !ok {
		return nil, shared.NewDomainError("MISSING_PRICE", fmt.Sprintf("Row %d: price is required", row.Number))
	}
	price := tabular.ToDecimal(priceRaw)
	if price == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Row %d: price %q is not a number", row.Number, priceRaw))
	}

	fields.Patch.Name = &name
	fields.Patch.Price = price

	if sku, ok := row.Get("sku"); ok {
		fields.SKU = sku
	}
	if slug, ok := row.Get("slug"); ok {
		fields.Patch.Slug = &slug
	}
	if description, ok := row.Get("description"); ok {
		fields.Patch.Description = &description
	}
	if short, ok := row.Get("short_description"); ok {
		fields.Patch.ShortDescription = &short
	}
	if raw, ok := row.Get("old_price"); ok {
		// optional money column: unparseable means absent
		fields.Patch.OldPrice = tabular.ToDecimal(raw)
	}
	if raw, ok := row.Get("stock"); ok {
		fields.Patch.Stock = tabular.ToInt(raw)
	}
	if raw, ok := row.Get("is_available"); ok {
		v := tabular.ToBool(raw)
		fields.Patch.IsAvailable = &v
	}
	if raw, ok := row.Get("is_featured"); ok {
		v := tabular.ToBool(raw)
		fields.Patch.IsFeatured = &v
	}
	if raw, ok := row.Get("is_new"); ok {
		v := tabular.ToBool(raw)
		fields.Patch.IsNew = &v
	}
	if raw, ok := row.Get("is_bestseller"); ok {
		v := tabular.ToBool(raw)
		fields.Patch.IsBestseller = &v
	}

	fields.Categories = parseCategories(row)
	fields.Images = parseImages(row)
	return fields, nil
}

func parseCategories(row tabular.Row) []string {
	raw, ok := row.Get("category")
	if !ok {
		raw, ok = row.Get("categories")
	}
	if !ok {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseImages(row tabular.Row) []imageRef {
	var refs []imageRef
	for i := 1; i <= maxImages; i++ {
		if value, ok := row.Get(fmt.Sprintf("image_%d", i)); ok {
			refs = append(refs, imageRef{Position: i, Value: value})
		}
	}
	return refs
}
