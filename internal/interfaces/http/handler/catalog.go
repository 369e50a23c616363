package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CatalogHandler handles read-only catalog endpoints
type CatalogHandler struct {
	BaseHandler
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	images     catalog.ProductImageRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	images catalog.ProductImageRepository,
) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		images:     images,
	}
}

// ListProducts returns products with pagination and search
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter, err := parseListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if available := c.Query("is_available"); available != "" {
		filter.Filters["is_available"] = available == "true"
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category_id")
			return
		}
		filter.Filters["category_id"] = id
	}

	page, err := h.products.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.NewProductResponseList(page.Items), page.Total, page.Page, page.PageSize)
}

// GetProduct returns one product by slug, including its images
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Product slug is required")
		return
	}

	product, err := h.products.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := struct {
		dto.ProductResponse
		Images []ProductImageResponse `json:"images"`
	}{ProductResponse: dto.NewProductResponse(product)}

	images, err := h.images.FindByProduct(c.Request.Context(), product.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	for _, image := range images {
		resp.Images = append(resp.Images, ProductImageResponse{
			Path:     image.Path,
			AltText:  image.AltText,
			IsMain:   image.IsMain,
			Position: image.Position,
		})
	}

	h.Success(c, resp)
}

// ProductImageResponse represents one product image in API responses
type ProductImageResponse struct {
	Path     string `json:"path"`
	AltText  string `json:"alt_text,omitempty"`
	IsMain   bool   `json:"is_main"`
	Position int    `json:"position"`
}

// ListCategories returns categories with pagination
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	filter, err := parseListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.categories.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.NewCategoryResponseList(page.Items), page.Total, page.Page, page.PageSize)
}

// GetCategory returns one category by slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Category slug is required")
		return
	}

	category, err := h.categories.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCategoryResponse(category))
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:slug", h.GetProduct)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/:slug", h.GetCategory)
}
