package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CatalogStore is the catalog-side collaborator of the import pipeline.
// InTx runs a function against a transactional view of the same store; a
// returned error rolls every write of that function back, so a failed row
// never leaves partial field writes behind.
type CatalogStore interface {
	FindProductBySKU(ctx context.Context, sku string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, product *catalog.Product) error
	UpdateProduct(ctx context.Context, product *catalog.Product) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error)
	CreateCategory(ctx context.Context, category *catalog.Category) error
	ReplaceProductCategories(ctx context.Context, productID uuid.UUID, categories []*catalog.Category) error
	AddProductImage(ctx context.Context, image *catalog.ProductImage) error
	RemoveProductImages(ctx context.Context, productID uuid.UUID) error
	InTx(ctx context.Context, fn func(tx CatalogStore) error) error
}

// BlobStorage stores uploaded import files, fetched images and generated logs
type BlobStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Fetcher downloads remote image bodies with a bounded timeout
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ProgressReporter mirrors live job counters to a fast store for polling.
// Implementations are best-effort; reporting failures must not surface.
// Clear is called once the terminal job state is persisted.
type ProgressReporter interface {
	Report(ctx context.Context, job *bulk.ImportJob)
	Clear(ctx context.Context, jobID uuid.UUID)
}

// NopProgressReporter discards progress updates
type NopProgressReporter struct{}

func (NopProgressReporter) Report(context.Context, *bulk.ImportJob) {}

func (NopProgressReporter) Clear(context.Context, uuid.UUID) {}
