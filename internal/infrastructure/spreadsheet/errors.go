package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// Ingest error codes
const (
	// General file errors
	ErrCodeIngestUnknown      = "ERR_INGEST_UNKNOWN"
	ErrCodeIngestInvalidFile  = "ERR_INGEST_INVALID_FILE"
	ErrCodeIngestEmptyFile    = "ERR_INGEST_EMPTY_FILE"
	ErrCodeIngestFileTooLarge = "ERR_INGEST_FILE_TOO_LARGE"

	// Workbook structure errors
	ErrCodeIngestNoWorksheet   = "ERR_INGEST_NO_WORKSHEET"
	ErrCodeIngestMissingHeader = "ERR_INGEST_MISSING_HEADER"

	// Row-level errors
	ErrCodeIngestRequiredField = "ERR_INGEST_REQUIRED_FIELD"
	ErrCodeIngestInvalidNumber = "ERR_INGEST_INVALID_NUMBER"
)

// Common ingest errors
var (
	// ErrEmptyFile is returned when the workbook contains no rows
	ErrEmptyFile = errors.New("workbook is empty")

	// ErrNoWorksheet is returned when the workbook has no sheets
	ErrNoWorksheet = errors.New("workbook contains no worksheet")

	// ErrFileTooLarge is returned when the file exceeds maximum size
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrUnsupportedFileType is returned for extensions other than .xlsx/.xls
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// HeaderMismatchError reports template column mappings whose headers were not
// observed in the source header row. It aggregates all missing headers into a
// single run-level error.
type HeaderMismatchError struct {
	MallName string
	Missing  []string
}

// Error implements the error interface
func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("template %q: headers not found in source file: %s",
		e.MallName, strings.Join(e.Missing, ", "))
}

// RowError represents an error in a specific source row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
	}
}

// ErrorCollection collects row-level errors up to a configurable cap while
// still counting every error past the cap.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequiredError adds a missing mandatory field error
func (ec *ErrorCollection) AddRequiredError(row int, column string) {
	ec.Add(NewRowError(row, column, ErrCodeIngestRequiredField,
		fmt.Sprintf("field '%s' is required", column)))
}

// AddNumberError adds an unparsable numeric value error
func (ec *ErrorCollection) AddNumberError(row int, column, value string) {
	ec.Add(RowError{
		Row:     row,
		Column:  column,
		Code:    ErrCodeIngestInvalidNumber,
		Message: "value is not a valid number",
		Value:   value,
	})
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Count returns the number of collected errors (up to maxErrors)
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns the total number of errors including those not collected
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were not collected due to the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// String returns a string representation of all errors
func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) found", ec.totalCount))
	if ec.IsTruncated() {
		sb.WriteString(fmt.Sprintf(" (showing first %d)", ec.maxErrors))
	}
	sb.WriteString(":\n")

	for _, err := range ec.errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}

	return sb.String()
}
