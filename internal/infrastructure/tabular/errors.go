package tabular

import "errors"

var (
	// ErrEmptyFile is returned when the uploaded file has no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrUnsupportedFormat is returned for file extensions other than csv, xls, xlsx
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnreadable is returned when the file cannot be decoded in any supported encoding
	ErrUnreadable = errors.New("file could not be read")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file missing header row")
)
