package dto

import (
	"time"

	"github.com/storefront/backend/internal/domain/bulk"
)

// CreateImportJobRequest represents the multipart form fields accompanying an
// uploaded catalog file. The file itself arrives in the "file" form part.
type CreateImportJobRequest struct {
	Name              string `form:"name"`
	Mode              string `form:"mode" binding:"omitempty,oneof=create update create_update"`
	SkipExisting      bool   `form:"skip_existing"`
	RefreshImages     bool   `form:"refresh_images"`
	DefaultCategoryID string `form:"default_category_id" binding:"omitempty,uuid"`
}

// ImportJobResponse represents an import job in API responses
type ImportJobResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	FileName          string     `json:"file_name"`
	Mode              string     `json:"mode"`
	Status            string     `json:"status"`
	TotalRows         int        `json:"total_rows"`
	ProcessedRows     int        `json:"processed_rows"`
	CreatedCount      int        `json:"created_count"`
	UpdatedCount      int        `json:"updated_count"`
	SkippedCount      int        `json:"skipped_count"`
	ErrorCount        int        `json:"error_count"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	SkipExisting      bool       `json:"skip_existing"`
	RefreshImages     bool       `json:"refresh_images"`
	DefaultCategoryID string     `json:"default_category_id,omitempty"`
	SuccessRate       float64    `json:"success_rate"`
	HasLog            bool       `json:"has_log"`
	CreatedAt         time.Time  `json:"created_at"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`
}

// NewImportJobResponse converts an import job to its API representation
func NewImportJobResponse(job *bulk.ImportJob) ImportJobResponse {
	resp := ImportJobResponse{
		ID:            job.ID.String(),
		Name:          job.Name,
		FileName:      job.FileName,
		Mode:          string(job.Mode),
		Status:        string(job.Status),
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		CreatedCount:  job.CreatedCount,
		UpdatedCount:  job.UpdatedCount,
		SkippedCount:  job.SkippedCount,
		ErrorCount:    job.ErrorCount,
		ErrorMessage:  job.ErrorMessage,
		SkipExisting:  job.SkipExisting,
		RefreshImages: job.RefreshImages,
		SuccessRate:   job.SuccessRate(),
		HasLog:        job.LogFileKey != "",
		CreatedAt:     job.CreatedAt,
		ProcessedAt:   job.ProcessedAt,
	}
	if job.DefaultCategoryID != nil {
		resp.DefaultCategoryID = job.DefaultCategoryID.String()
	}
	return resp
}

// NewImportJobResponseList converts a slice of import jobs
func NewImportJobResponseList(jobs []*bulk.ImportJob) []ImportJobResponse {
	responses := make([]ImportJobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, NewImportJobResponse(job))
	}
	return responses
}

// RowRecordResponse represents one processed row in API responses
type RowRecordResponse struct {
	RowNumber int    `json:"row_number"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Outcome   string `json:"outcome"`
	Message   string `json:"message"`
}

// NewRowRecordResponseList converts row audit records
func NewRowRecordResponseList(records []*bulk.ImportRowRecord) []RowRecordResponse {
	responses := make([]RowRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, RowRecordResponse{
			RowNumber: record.RowNumber,
			SKU:       record.SKU,
			Name:      record.Name,
			Outcome:   string(record.Outcome),
			Message:   record.Message,
		})
	}
	return responses
}
