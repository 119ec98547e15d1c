package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapVertexError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{
			name:     "HTTP error",
			err:      &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exceeded"},
			wantType: apperrors.ErrorTypeBackend,
			wantMsg:  "quota exceeded",
		},
		{
			name:     "Rejected by the service",
			err:      status.Error(codes.InvalidArgument, "request contains an invalid argument"),
			wantType: apperrors.ErrorTypeBackend,
			wantMsg:  "request contains an invalid argument",
		},
		{
			name:     "Service unavailable",
			err:      status.Error(codes.Unavailable, "connection refused"),
			wantType: apperrors.ErrorTypeTransport,
		},
		{
			name:     "Plain error",
			err:      errors.New("dial tcp: i/o timeout"),
			wantType: apperrors.ErrorTypeTransport,
			wantMsg:  "dial tcp: i/o timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapVertexError(tt.err)
			assert.True(t, apperrors.IsType(err, tt.wantType), err.Error())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperrors.PublicMessage(err))
			}
		})
	}
}

func TestNewVertexBackend_RequiresProject(t *testing.T) {
	_, err := NewVertexBackend(context.Background(), "", "us-central1", "")
	assert.Error(t, err)
}

var _ domain.GenerationBackend = (*VertexBackend)(nil)
var _ domain.GenerationBackend = (*OpenAIBackend)(nil)
