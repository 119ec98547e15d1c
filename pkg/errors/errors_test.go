package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = stderrors.New("sentinel")

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewDocumentNotFoundError("b.pdf", nil), http.StatusBadRequest},
		{"missing second", NewMissingSecondDocumentError(nil), http.StatusBadRequest},
		{"retrieval", NewRetrievalError("a.pdf", 404, nil), http.StatusInternalServerError},
		{"empty payload", NewEmptyPayloadError("a.pdf", nil), http.StatusInternalServerError},
		{"persistence", NewPersistenceError("insert failed", nil), http.StatusInternalServerError},
		{"backend", NewBackendError("rate limited", 429, nil), http.StatusInternalServerError},
		{"transport", NewTransportError("timeout", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("Unexpected error", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStatusCode(tt.err))
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.Equal(t, tt.want, GetStatusCode(wrapped))
		})
	}
}

func TestGetStatusCode_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(stderrors.New("boom")))
}

func TestNewBackendError_DefaultMessage(t *testing.T) {
	err := NewBackendError("", 500, nil)
	assert.Equal(t, DefaultBackendMessage, err.Message)
	assert.Equal(t, 500, err.UpstreamStatus)
}

func TestNewRetrievalError_CarriesUpstreamStatus(t *testing.T) {
	err := NewRetrievalError("a.pdf", http.StatusNotFound, errSentinel)

	assert.Equal(t, http.StatusNotFound, err.UpstreamStatus)
	assert.Contains(t, err.Message, "404")
	assert.ErrorIs(t, err, errSentinel)
	assert.True(t, IsType(err, ErrorTypeRetrieval))
	assert.False(t, IsType(err, ErrorTypeBackend))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Document text not found: b.pdf", PublicMessage(NewDocumentNotFoundError("b.pdf", nil)))
	assert.Equal(t, "boom", PublicMessage(stderrors.New("boom")))
	assert.Equal(t, "", PublicMessage(nil))
}
