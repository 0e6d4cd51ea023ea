package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeMissingUpload   = "MISSING_UPLOAD"
	CodeInputSchema     = "INPUT_SCHEMA"
	CodeDateParse       = "DATE_PARSE"
	CodeCellParse       = "CELL_PARSE"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeRunFailed       = "FEATURE_RUN_FAILED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Predefined errors
var (
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimit, "Rate limit exceeded")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// MissingUploadError reports a required multipart file field that was not sent
func MissingUploadError(field string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeMissingUpload,
		fmt.Sprintf("multipart field %q is required", field), field)
}

// PayloadTooLargeError reports an upload over the configured size limit
func PayloadTooLargeError(limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
		"The request body exceeds the maximum allowed size", map[string]int64{"limit_bytes": limit})
}

// FromInputError maps a loader error caused by bad input data to a 400
// response. It returns nil when err is not an input error.
func FromInputError(err error) *APIError {
	var schemaErr *InputSchemaError
	if stderrors.As(err, &schemaErr) {
		return NewWithDetails(http.StatusBadRequest, CodeInputSchema, schemaErr.Error(), schemaErr)
	}

	var dateErr *DateParseError
	if stderrors.As(err, &dateErr) {
		return NewWithDetails(http.StatusBadRequest, CodeDateParse, dateErr.Error(), dateErr)
	}

	var cellErr *CellParseError
	if stderrors.As(err, &cellErr) {
		return NewWithDetails(http.StatusBadRequest, CodeCellParse, cellErr.Error(), cellErr)
	}

	return nil
}

// RunFailedError wraps an internal pipeline failure
func RunFailedError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeRunFailed, "Feature run failed", err.Error())
}
