package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation            ErrorType = "validation"
	ErrorTypeRetrieval             ErrorType = "retrieval"
	ErrorTypeEmptyPayload          ErrorType = "empty_payload"
	ErrorTypeExtraction            ErrorType = "extraction"
	ErrorTypePersistence           ErrorType = "persistence"
	ErrorTypeStorage               ErrorType = "storage"
	ErrorTypeNotFound              ErrorType = "not_found"
	ErrorTypeMissingSecondDocument ErrorType = "missing_second_document"
	ErrorTypeRecordLookup          ErrorType = "record_lookup"
	ErrorTypeBackend               ErrorType = "backend"
	ErrorTypeTransport             ErrorType = "transport"
	ErrorTypeInternal              ErrorType = "internal"
)

// DefaultBackendMessage is reported when the generation backend fails without a message.
const DefaultBackendMessage = "generation backend request failed"

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	// UpstreamStatus is the HTTP status reported by a remote dependency, 0 if none.
	UpstreamStatus int   `json:"-"`
	Cause          error `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewRetrievalError reports that no retrieval strategy produced the file.
func NewRetrievalError(fileName string, upstreamStatus int, cause error) *AppError {
	msg := "Failed to retrieve " + fileName
	if upstreamStatus != 0 {
		msg = fmt.Sprintf("%s: upstream status %d", msg, upstreamStatus)
	}
	return &AppError{
		Type:           ErrorTypeRetrieval,
		Message:        msg,
		StatusCode:     http.StatusInternalServerError,
		UpstreamStatus: upstreamStatus,
		Cause:          cause,
	}
}

// NewEmptyPayloadError reports a retrieval that succeeded with zero bytes.
func NewEmptyPayloadError(fileName string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeEmptyPayload,
		Message:    "Downloaded file is empty",
		Details:    fileName,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewExtractionError(fileName string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    "Failed to extract text from " + fileName,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewPersistenceError carries the record store's own message.
func NewPersistenceError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewDocumentNotFoundError names the file whose text could not be found.
func NewDocumentNotFoundError(fileName string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    "Document text not found: " + fileName,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

func NewMissingSecondDocumentError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMissingSecondDocument,
		Message:    "Second document is required for comparison",
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

func NewRecordLookupError(fileName string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRecordLookup,
		Message:    "Failed to load document " + fileName,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewBackendError reports a non-success answer from the generation backend.
// An empty message is replaced with DefaultBackendMessage.
func NewBackendError(message string, upstreamStatus int, cause error) *AppError {
	if message == "" {
		message = DefaultBackendMessage
	}
	return &AppError{
		Type:           ErrorTypeBackend,
		Message:        message,
		StatusCode:     http.StatusInternalServerError,
		UpstreamStatus: upstreamStatus,
		Cause:          cause,
	}
}

// NewTransportError reports a failure to reach or understand the generation backend.
func NewTransportError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTransport,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to show to API callers.
func PublicMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
