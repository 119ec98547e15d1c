package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultVertexModel = "gemini-2.0-flash-001"

// VertexBackend generates with a Gemini model on Vertex AI. Credentials come
// from the environment (Application Default Credentials).
type VertexBackend struct {
	client *genai.Client
	model  string
}

func NewVertexBackend(ctx context.Context, projectID, location, model string) (*VertexBackend, error) {
	if projectID == "" {
		return nil, fmt.Errorf("vertex ai requires a project id")
	}
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	if model == "" {
		model = DefaultVertexModel
	}
	return &VertexBackend{client: client, model: model}, nil
}

func (b *VertexBackend) Name() string { return "vertex" }

func (b *VertexBackend) Close() error {
	return b.client.Close()
}

// Complete sends system messages as the model's system instruction and the
// remaining messages as the prompt parts.
func (b *VertexBackend) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	model := b.client.GenerativeModel(b.model)

	var system []genai.Part
	var parts []genai.Part
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			system = append(system, genai.Text(m.Content))
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", mapVertexError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewTransportError("empty response from model", domain.ErrBackendUnreachable)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

func mapVertexError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return apperrors.NewBackendError(gErr.Message, gErr.Code, fmt.Errorf("%w: %w", domain.ErrBackendRejected, err))
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unavailable && s.Code() != codes.DeadlineExceeded {
		return apperrors.NewBackendError(s.Message(), 0, fmt.Errorf("%w: %w", domain.ErrBackendRejected, err))
	}
	return apperrors.NewTransportError(err.Error(), fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err))
}
