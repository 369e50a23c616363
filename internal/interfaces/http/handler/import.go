package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// runTimeout bounds one background import run
const runTimeout = 30 * time.Minute

// ImportService is the application-layer surface the import endpoints use
type ImportService interface {
	CreateJob(ctx context.Context, input importer.CreateJobInput) (*bulk.ImportJob, error)
	Run(ctx context.Context, job *bulk.ImportJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*bulk.ImportJob, error)
	ListJobs(ctx context.Context, filter shared.Filter) (shared.Paginated[*bulk.ImportJob], error)
	GetRowRecords(ctx context.Context, jobID uuid.UUID) ([]*bulk.ImportRowRecord, error)
	DownloadLog(ctx context.Context, jobID uuid.UUID) ([]byte, string, error)
}

// ImportHandler handles bulk catalog import endpoints
type ImportHandler struct {
	BaseHandler
	service ImportService
	logger  *zap.Logger
	sync    bool
}

// ImportHandlerOption configures optional handler behavior
type ImportHandlerOption func(*ImportHandler)

// WithSynchronousRuns makes Create process the file before responding.
// Used by tests and the CLI wiring; the server runs jobs in the background.
func WithSynchronousRuns() ImportHandlerOption {
	return func(h *ImportHandler) { h.sync = true }
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(service ImportService, logger *zap.Logger, opts ...ImportHandlerOption) *ImportHandler {
	h := &ImportHandler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create accepts a multipart upload and registers an import job for it.
// The job is processed in the background; clients poll Get for progress.
func (h *ImportHandler) Create(c *gin.Context) {
	var req dto.CreateImportJobRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	input := importer.CreateJobInput{
		Name:          req.Name,
		FileName:      header.Filename,
		Data:          data,
		Mode:          bulk.ImportMode(req.Mode),
		SkipExisting:  req.SkipExisting,
		RefreshImages: req.RefreshImages,
	}
	if req.DefaultCategoryID != "" {
		id, err := uuid.Parse(req.DefaultCategoryID)
		if err != nil {
			h.BadRequest(c, "Invalid default_category_id")
			return
		}
		input.DefaultCategoryID = &id
	}

	job, err := h.service.CreateJob(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.sync {
		if err := h.service.Run(c.Request.Context(), job); err != nil {
			h.logger.Error("import run failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	} else {
		go h.runInBackground(job)
	}

	h.Created(c, dto.NewImportJobResponse(job))
}

// runInBackground processes the job detached from the request context
func (h *ImportHandler) runInBackground(job *bulk.ImportJob) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := h.service.Run(ctx, job); err != nil {
		h.logger.Error("import run failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}

// Get returns one import job with its counters
func (h *ImportHandler) Get(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewImportJobResponse(job))
}

// List returns import jobs page by page
func (h *ImportHandler) List(c *gin.Context) {
	filter, err := parseListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.service.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.NewImportJobResponseList(page.Items), page.Total, page.Page, page.PageSize)
}

// Rows returns the per-row audit records of one job
func (h *ImportHandler) Rows(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}

	if _, err := h.service.GetJob(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	records, err := h.service.GetRowRecords(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewRowRecordResponseList(records))
}

// DownloadLog streams the generated CSV log artifact as an attachment
func (h *ImportHandler) DownloadLog(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}

	data, filename, err := h.service.DownloadLog(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ImportHandler) parseJobID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid job ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes registers all import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/import/jobs")
	{
		jobs.POST("", h.Create)
		jobs.GET("", h.List)
		jobs.GET("/:id", h.Get)
		jobs.GET("/:id/rows", h.Rows)
		jobs.GET("/:id/log", h.DownloadLog)
	}
}
