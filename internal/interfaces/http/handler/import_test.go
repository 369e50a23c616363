package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) CreateJob(ctx context.Context, input importer.CreateJobInput) (*bulk.ImportJob, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportJob), args.Error(1)
}

func (m *MockImportService) Run(ctx context.Context, job *bulk.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportService) GetJob(ctx context.Context, id uuid.UUID) (*bulk.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportJob), args.Error(1)
}

func (m *MockImportService) ListJobs(ctx context.Context, filter shared.Filter) (shared.Paginated[*bulk.ImportJob], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*bulk.ImportJob]), args.Error(1)
}

func (m *MockImportService) GetRowRecords(ctx context.Context, jobID uuid.UUID) ([]*bulk.ImportRowRecord, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bulk.ImportRowRecord), args.Error(1)
}

func (m *MockImportService) DownloadLog(ctx context.Context, jobID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func setupImportRouter(t *testing.T, service ImportService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewImportHandler(service, zap.NewNop(), WithSynchronousRuns())
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func createTestJob(t *testing.T) *bulk.ImportJob {
	t.Helper()
	job, err := bulk.NewImportJob("catalog.csv", "imports/uploads/abc.csv", "catalog.csv", bulk.ModeCreateUpdate)
	require.NoError(t, err)
	return job
}

// newUploadRequest builds a multipart POST with one file part and form fields
func newUploadRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/jobs", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportHandler_Create(t *testing.T) {
	t.Run("creates and runs a job", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		job := createTestJob(t)
		service.On("CreateJob", mock.Anything, mock.MatchedBy(func(input importer.CreateJobInput) bool {
			return input.FileName == "catalog.csv" && input.Mode == bulk.ModeCreateUpdate
		})).Return(job, nil)
		service.On("Run", mock.Anything, job).Return(nil)

		req := newUploadRequest(t, map[string]string{"mode": "create_update"}, "catalog.csv", []byte("name,price\nChair,100\n"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Mode   string `json:"mode"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, job.ID.String(), resp.Data.ID)
		assert.Equal(t, "create_update", resp.Data.Mode)
		service.AssertExpectations(t)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		req := newUploadRequest(t, map[string]string{"mode": "create"}, "", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "CreateJob")
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		req := newUploadRequest(t, map[string]string{"mode": "delete"}, "catalog.csv", []byte("name,price\n"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "CreateJob")
	})

	t.Run("rejects invalid default category", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		fields := map[string]string{"mode": "create", "default_category_id": "not-a-uuid"}
		req := newUploadRequest(t, fields, "catalog.csv", []byte("name,price\n"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "CreateJob")
	})
}

func TestImportHandler_Get(t *testing.T) {
	t.Run("returns job with counters", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		job := createTestJob(t)
		require.NoError(t, job.Start())
		job.SetTotalRows(3)
		job.RecordOutcome(bulk.OutcomeCreated)
		job.RecordOutcome(bulk.OutcomeCreated)
		job.RecordOutcome(bulk.OutcomeError)
		require.NoError(t, job.Finish())

		service.On("GetJob", mock.Anything, job.ID).Return(job, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs/"+job.ID.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Status       string `json:"status"`
				CreatedCount int    `json:"created_count"`
				ErrorCount   int    `json:"error_count"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "partial", resp.Data.Status)
		assert.Equal(t, 2, resp.Data.CreatedCount)
		assert.Equal(t, 1, resp.Data.ErrorCount)
	})

	t.Run("returns 404 for unknown job", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		jobID := uuid.New()
		service.On("GetJob", mock.Anything, jobID).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs/"+jobID.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for malformed id", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs/not-a-uuid", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestImportHandler_List(t *testing.T) {
	t.Run("returns paginated jobs", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		job := createTestJob(t)
		page := shared.NewPaginated([]*bulk.ImportJob{job}, 1, 1, 20)
		service.On("ListJobs", mock.Anything, mock.Anything).Return(page, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Meta struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("passes status filter to the service", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		page := shared.NewPaginated([]*bulk.ImportJob{}, 0, 1, 20)
		service.On("ListJobs", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "completed"
		})).Return(page, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs?status=completed", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		service.AssertExpectations(t)
	})
}

func TestImportHandler_Rows(t *testing.T) {
	t.Run("returns row audit records", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		job := createTestJob(t)
		record, err := bulk.NewRowRecord(job.ID, 2, "CHAIR-001", "Chair", bulk.OutcomeCreated, "Product created", nil)
		require.NoError(t, err)

		service.On("GetJob", mock.Anything, job.ID).Return(job, nil)
		service.On("GetRowRecords", mock.Anything, job.ID).Return([]*bulk.ImportRowRecord{record}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs/"+job.ID.String()+"/rows", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []struct {
				RowNumber int    `json:"row_number"`
				Outcome   string `json:"outcome"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, 2, resp.Data[0].RowNumber)
		assert.Equal(t, "created", resp.Data[0].Outcome)
	})
}

func TestImportHandler_DownloadLog(t *testing.T) {
	t.Run("streams the log as an attachment", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		jobID := uuid.New()
		logData := []byte("\xEF\xBB\xBFRow,SKU,Name,Status,Message\n")
		service.On("DownloadLog", mock.Anything, jobID).Return(logData, "import_log_"+jobID.String()+".csv", nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs/"+jobID.String()+"/log", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Equal(t, logData, w.Body.Bytes())
	})

	t.Run("returns 409 when the log is not ready", func(t *testing.T) {
		service := new(MockImportService)
		engine := setupImportRouter(t, service)

		jobID := uuid.New()
		service.On("DownloadLog", mock.Anything, jobID).
			Return(nil, "", shared.NewDomainError("LOG_NOT_READY", "Import log has not been generated yet"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/jobs/"+jobID.String()+"/log", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
