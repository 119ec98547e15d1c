package domain

import "errors"

// Domain errors
var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrMissingSecondDocument = errors.New("second document is required for comparison")
	ErrEmptyPayload          = errors.New("downloaded file is empty")
	ErrRetrievalFailed       = errors.New("document retrieval failed")
	ErrBackendRejected       = errors.New("generation backend rejected request")
	ErrBackendUnreachable    = errors.New("generation backend unreachable")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
