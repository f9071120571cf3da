package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// File ingestion error codes
const (
	// ErrCodeFileTooLarge is used when an uploaded file exceeds the size limit
	ErrCodeFileTooLarge = "ERR_FILE_TOO_LARGE"
	// ErrCodeUnsupportedFile is used for unsupported upload file types
	ErrCodeUnsupportedFile = "ERR_UNSUPPORTED_FILE"
	// ErrCodeHeaderMismatch is used when a template's mapped headers are
	// missing from the uploaded workbook
	ErrCodeHeaderMismatch = "ERR_HEADER_MISMATCH"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,

	ErrCodeFileTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedFile: http.StatusUnsupportedMediaType,
	ErrCodeHeaderMismatch:  http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"TEMPLATE_EXISTS":       ErrCodeAlreadyExists,
	"MANUFACTURER_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_STATE":         ErrCodeInvalidState,
	"NO_RESULT_FILE":        ErrCodeNotFound,
	"STORAGE_UNAVAILABLE":   ErrCodeInvalidState,
	"INVALID_MALL_NAME":     ErrCodeInvalidInput,
	"INVALID_TEMPLATE":      ErrCodeInvalidInput,
	"INVALID_COLUMN_REF":    ErrCodeInvalidInput,
	"INVALID_EXPORT_COLUMN": ErrCodeInvalidInput,
	"INVALID_PATTERN":       ErrCodeInvalidInput,
	"INVALID_NAME":          ErrCodeInvalidInput,
	"INVALID_ORDER_NO":      ErrCodeInvalidInput,
	"INVALID_FILE_NAME":     ErrCodeInvalidInput,
	"INVALID_FILE_SIZE":     ErrCodeInvalidInput,
	"INVALID_UPLOAD_KIND":   ErrCodeInvalidInput,
	"INVALID_OPTION_KEY":    ErrCodeInvalidInput,
	"INVALID_PRODUCT_CODE":  ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unknown codes pass through as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
