package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Format identifies the layout of an uploaded tabular file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a file name to its tabular format by extension
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xls":
		return FormatXLS, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// nullMarkers are cell values treated as "no value supplied". Spreadsheet
// exports commonly emit these for blank cells.
var nullMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"-":    {},
}

// Row is one data row of the file. Cells holds only the columns that carried
// a real value; null markers and blanks are dropped so callers can tell
// "absent" apart from "empty". Number counts from the top of the file with
// the header as row 1, so the first data row is 2.
type Row struct {
	Number int
	Cells  map[string]string
}

// Get returns the cell value for a column and whether it was present
func (r Row) Get(column string) (string, bool) {
	v, ok := r.Cells[column]
	return v, ok
}

// IsEmpty reports whether the row carried no values at all
func (r Row) IsEmpty() bool {
	return len(r.Cells) == 0
}

// Table is a fully parsed tabular file
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the header row contains the given column
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Read parses an uploaded file into a Table. The format is chosen by the
// file name extension. Header names are trimmed and lower-cased; rows that
// carry no values are skipped.
func Read(data []byte, filename string) (*Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return readCSV(data)
	default:
		return readWorkbook(data)
	}
}

func readCSV(data []byte) (*Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return buildTable(records)
}

func readWorkbook(data []byte) (*Table, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return buildTable(records)
}

func buildTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	table := &Table{Headers: headers}
	for i, record := range records[1:] {
		row := Row{
			// header is row 1, data starts at 2
			Number: i + 2,
			Cells:  make(map[string]string, len(headers)),
		}
		for col, header := range headers {
			if header == "" || col >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[col])
			if _, null := nullMarkers[strings.ToLower(value)]; null {
				continue
			}
			row.Cells[header] = value
		}
		if row.IsEmpty() {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// decodeText converts raw CSV bytes to a UTF-8 string. UTF-8 input is used
// as-is after BOM stripping; anything else falls back to Windows-1251 and
// then Latin-1, matching the encodings seen in supplier exports.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	if text, err := decodeCharmap(data, charmap.Windows1251); err == nil {
		return text, nil
	}
	if text, err := decodeCharmap(data, charmap.ISO8859_1); err == nil {
		return text, nil
	}
	return "", ErrUnreadable
}

func decodeCharmap(data []byte, cm *charmap.Charmap) (string, error) {
	decoded, err := io.ReadAll(cm.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return "", err
	}
	// the decoder substitutes undefined bytes instead of failing
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", ErrUnreadable
	}
	return string(decoded), nil
}
