package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

var _ importer.CatalogStore = (*GormCatalogStore)(nil)

// GormCatalogStore exposes the catalog writes the import pipeline needs
// behind a single store, so a whole row can be committed or rolled back
// as one transaction.
type GormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a new GormCatalogStore
func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// FindProductBySKU finds a product by SKU, including its categories
func (s *GormCatalogStore) FindProductBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := s.db.WithContext(ctx).Preload("Categories").First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product
func (s *GormCatalogStore) CreateProduct(ctx context.Context, product *catalog.Product) error {
	if err := s.db.WithContext(ctx).Omit("Categories").Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateProduct persists product field changes
func (s *GormCatalogStore) UpdateProduct(ctx context.Context, product *catalog.Product) error {
	return s.db.WithContext(ctx).Omit("Categories").Save(product).Error
}

// FindCategoryByID finds a category by ID
func (s *GormCatalogStore) FindCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindCategoryBySlug finds a category by slug
func (s *GormCatalogStore) FindCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := s.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category
func (s *GormCatalogStore) CreateCategory(ctx context.Context, category *catalog.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ReplaceProductCategories replaces the product's category assignments
func (s *GormCatalogStore) ReplaceProductCategories(ctx context.Context, productID uuid.UUID, categories []*catalog.Category) error {
	product := catalog.Product{BaseEntity: shared.BaseEntity{ID: productID}}
	return s.db.WithContext(ctx).Model(&product).Association("Categories").Replace(categories)
}

// AddProductImage inserts a product image
func (s *GormCatalogStore) AddProductImage(ctx context.Context, image *catalog.ProductImage) error {
	return s.db.WithContext(ctx).Create(image).Error
}

// RemoveProductImages removes all images of one product
func (s *GormCatalogStore) RemoveProductImages(ctx context.Context, productID uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "product_id = ?", productID).Error
}

// InTx runs fn against a transaction-scoped store
func (s *GormCatalogStore) InTx(ctx context.Context, fn func(tx importer.CatalogStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCatalogStore{db: tx})
	})
}
