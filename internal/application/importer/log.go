package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/storefront/backend/internal/domain/bulk"
)

// utf8BOM makes the generated CSV open correctly in spreadsheet tools
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writeLog renders the job's full row trail as a CSV artifact, uploads it
// and returns the storage key.
func (s *Service) writeLog(ctx context.Context, job *bulk.ImportJob) (string, error) {
	records, err := s.rows.FindByJob(ctx, job.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load row records: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Row", "SKU", "Name", "Status", "Message"}); err != nil {
		return "", err
	}
	for _, record := range records {
		if err := writer.Write([]string{
			strconv.Itoa(record.RowNumber),
			record.SKU,
			record.Name,
			string(record.Outcome),
			record.Message,
		}); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("imports/logs/%s.csv", job.ID.String())
	if err := s.blobs.Upload(ctx, key, buf.Bytes(), "text/csv; charset=utf-8"); err != nil {
		return "", fmt.Errorf("failed to upload import log: %w", err)
	}
	return key, nil
}
