package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by a mocked SQL driver
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, sqlDB := newMockDB(t)
	return NewGormProductRepository(db), mock, sqlDB
}

func productRows(id uuid.UUID, sku, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sku", "slug", "name", "price", "stock", "is_available"}).
		AddRow(id, sku, "test-product", name, decimal.NewFromInt(100), 5, true)
}

func expectEmptyCategoryPreload(mock sqlmock.Sqlmock, productID uuid.UUID) {
	mock.ExpectQuery(`SELECT \* FROM "product_categories" WHERE .*product_id.*`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "category_id"}))
}

func TestGormProductRepository_FindBySKU(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE sku = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("CHAIR-001", 1).
			WillReturnRows(productRows(productID, "CHAIR-001", "Office Chair"))
		expectEmptyCategoryPreload(mock, productID)

		product, err := repo.FindBySKU(context.Background(), "CHAIR-001")

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "CHAIR-001", product.SKU)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown SKU", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE sku = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindBySKU(context.Background(), "NOPE")

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindBySlug(t *testing.T) {
	t.Run("finds product by slug", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE slug = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("test-product", 1).
			WillReturnRows(productRows(productID, "CHAIR-001", "Office Chair"))
		expectEmptyCategoryPreload(mock, productID)

		product, err := repo.FindBySlug(context.Background(), "test-product")

		assert.NoError(t, err)
		assert.Equal(t, "test-product", product.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ExistsBySKU(t *testing.T) {
	t.Run("returns true when SKU exists", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE sku = \$1`).
			WithArgs("CHAIR-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsBySKU(context.Background(), "CHAIR-001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when SKU does not exist", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE sku = \$1`).
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsBySKU(context.Background(), "NOPE")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for non-existent product", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), productID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Count(t *testing.T) {
	t.Run("counts products", func(t *testing.T) {
		repo, mock, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.Count(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ProductRepository interface", func(t *testing.T) {
		repo, _, sqlDB := newMockProductRepository(t)
		defer sqlDB.Close()

		var _ catalog.ProductRepository = repo
	})
}
