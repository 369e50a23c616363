package bulk

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// RowOutcome is the result of processing a single import row
type RowOutcome string

const (
	OutcomeCreated RowOutcome = "created"
	OutcomeUpdated RowOutcome = "updated"
	OutcomeSkipped RowOutcome = "skipped"
	OutcomeError   RowOutcome = "error"
)

// ImportRowRecord is the append-only audit entry for one processed row.
// RowNumber matches the row's position in the source file, counting the
// header as row 1.
type ImportRowRecord struct {
	shared.BaseEntity
	JobID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RowNumber int        `gorm:"not null"`
	SKU       string     `gorm:"type:varchar(50)"`
	Name      string     `gorm:"type:varchar(200)"`
	Outcome   RowOutcome `gorm:"type:varchar(20);not null"`
	Message   string     `gorm:"type:text"`
	RawData   string     `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (ImportRowRecord) TableName() string {
	return "import_row_records"
}

// NewRowRecord creates an audit entry for one row. The raw cell values are
// kept as JSON for later inspection.
func NewRowRecord(jobID uuid.UUID, rowNumber int, sku, name string, outcome RowOutcome, message string, raw map[string]string) (*ImportRowRecord, error) {
	if rowNumber < 2 {
		return nil, shared.NewDomainError("INVALID_ROW", "Row number must be 2 or greater")
	}
	rawJSON := "{}"
	if len(raw) > 0 {
		if data, err := json.Marshal(raw); err == nil {
			rawJSON = string(data)
		}
	}
	return &ImportRowRecord{
		BaseEntity: shared.NewBaseEntity(),
		JobID:      jobID,
		RowNumber:  rowNumber,
		SKU:        sku,
		Name:       name,
		Outcome:    outcome,
		Message:    message,
		RawData:    rawJSON,
	}, nil
}
