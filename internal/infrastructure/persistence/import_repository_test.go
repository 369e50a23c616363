package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/shared"
)

func newMockImportJobRepository(t *testing.T) (*GormImportJobRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, sqlDB := newMockDB(t)
	return NewGormImportJobRepository(db), mock, sqlDB
}

func newMockImportRowRepository(t *testing.T) (*GormImportRowRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, sqlDB := newMockDB(t)
	return NewGormImportRowRepository(db), mock, sqlDB
}

func TestGormImportJobRepository_FindByID(t *testing.T) {
	t.Run("finds existing job", func(t *testing.T) {
		repo, mock, sqlDB := newMockImportJobRepository(t)
		defer sqlDB.Close()

		jobID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "file_key", "file_name", "mode", "status", "total_rows", "created_count"}).
			AddRow(jobID, "catalog.csv", "imports/uploads/abc.csv", "catalog.csv", "create_update", "completed", 10, 10)

		mock.ExpectQuery(`SELECT \* FROM "import_jobs" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(jobID, 1).
			WillReturnRows(rows)

		job, err := repo.FindByID(context.Background(), jobID)

		assert.NoError(t, err)
		assert.Equal(t, jobID, job.ID)
		assert.Equal(t, bulk.StatusCompleted, job.Status)
		assert.Equal(t, 10, job.TotalRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown job", func(t *testing.T) {
		repo, mock, sqlDB := newMockImportJobRepository(t)
		defer sqlDB.Close()

		jobID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "import_jobs" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(jobID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		job, err := repo.FindByID(context.Background(), jobID)

		assert.Nil(t, job)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormImportJobRepository_Update(t *testing.T) {
	t.Run("persists counters", func(t *testing.T) {
		repo, mock, sqlDB := newMockImportJobRepository(t)
		defer sqlDB.Close()

		job, err := bulk.NewImportJob("catalog.csv", "imports/uploads/abc.csv", "catalog.csv", bulk.ModeCreate)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "import_jobs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Update(context.Background(), job)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormImportJobRepository_FindAll(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		repo, mock, sqlDB := newMockImportJobRepository(t)
		defer sqlDB.Close()

		jobID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "import_jobs" WHERE status = \$1`).
			WithArgs("completed").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow(jobID, "catalog.csv", "completed")
		mock.ExpectQuery(`SELECT \* FROM "import_jobs" WHERE status = \$1 ORDER BY created_at DESC`).
			WithArgs("completed", 20).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Filters["status"] = "completed"

		page, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Len(t, page.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormImportRowRepository_FindByJob(t *testing.T) {
	t.Run("returns rows ordered by row number", func(t *testing.T) {
		repo, mock, sqlDB := newMockImportRowRepository(t)
		defer sqlDB.Close()

		jobID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "job_id", "row_number", "sku", "name", "outcome", "message"}).
			AddRow(uuid.New(), jobID, 2, "CHAIR-001", "Office Chair", "created", "Product created").
			AddRow(uuid.New(), jobID, 3, "DESK-001", "Desk", "error", "Row 3: name is required")

		mock.ExpectQuery(`SELECT \* FROM "import_row_records" WHERE job_id = \$1 ORDER BY row_number ASC`).
			WithArgs(jobID).
			WillReturnRows(rows)

		records, err := repo.FindByJob(context.Background(), jobID)

		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, 2, records[0].RowNumber)
		assert.Equal(t, bulk.OutcomeCreated, records[0].Outcome)
		assert.Equal(t, bulk.OutcomeError, records[1].Outcome)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormImportRowRepository_CountByJob(t *testing.T) {
	t.Run("counts rows of one job", func(t *testing.T) {
		repo, mock, sqlDB := newMockImportRowRepository(t)
		defer sqlDB.Close()

		jobID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "import_row_records" WHERE job_id = \$1`).
			WithArgs(jobID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountByJob(context.Background(), jobID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
