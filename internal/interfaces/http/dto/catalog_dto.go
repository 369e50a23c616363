package dto

import (
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Slug             string             `json:"slug"`
	SKU              string             `json:"sku"`
	Description      string             `json:"description,omitempty"`
	ShortDescription string             `json:"short_description,omitempty"`
	Price            string             `json:"price"`
	OldPrice         string             `json:"old_price,omitempty"`
	DiscountPercent  int                `json:"discount_percent,omitempty"`
	Stock            int                `json:"stock"`
	InStock          bool               `json:"in_stock"`
	IsAvailable      bool               `json:"is_available"`
	IsFeatured       bool               `json:"is_featured"`
	IsNew            bool               `json:"is_new"`
	IsBestseller     bool               `json:"is_bestseller"`
	MainCategoryID   string             `json:"main_category_id,omitempty"`
	Categories       []CategoryResponse `json:"categories,omitempty"`
	TimestampResponse
}

// NewProductResponse converts a product to its API representation
func NewProductResponse(product *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:               product.ID.String(),
		Name:             product.Name,
		Slug:             product.Slug,
		SKU:              product.SKU,
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
		Price:            product.Price.String(),
		DiscountPercent:  product.DiscountPercent(),
		Stock:            product.Stock,
		InStock:          product.InStock(),
		IsAvailable:      product.IsAvailable,
		IsFeatured:       product.IsFeatured,
		IsNew:            product.IsNew,
		IsBestseller:     product.IsBestseller,
		TimestampResponse: TimestampResponse{
			CreatedAt: product.CreatedAt,
			UpdatedAt: product.UpdatedAt,
		},
	}
	if product.OldPrice != nil {
		resp.OldPrice = product.OldPrice.String()
	}
	if product.MainCategoryID != nil {
		resp.MainCategoryID = product.MainCategoryID.String()
	}
	for _, category := range product.Categories {
		resp.Categories = append(resp.Categories, NewCategoryResponse(&category))
	}
	return resp
}

// NewProductResponseList converts a slice of products
func NewProductResponseList(products []*catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, NewProductResponse(product))
	}
	return responses
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// NewCategoryResponse converts a category to its API representation
func NewCategoryResponse(category *catalog.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		SortOrder:   category.SortOrder,
	}
	if category.ParentID != nil {
		resp.ParentID = category.ParentID.String()
	}
	return resp
}

// NewCategoryResponseList converts a slice of categories
func NewCategoryResponseList(categories []*catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, NewCategoryResponse(category))
	}
	return responses
}
