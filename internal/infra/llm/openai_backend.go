package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama3-8b-8192"
)

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint,
// Groq included.
type OpenAIBackend struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIBackend uses the default OpenAI URL when baseURL is empty and
// http.DefaultClient when httpClient is nil.
func NewOpenAIBackend(name, apiKey, baseURL, model string, httpClient *http.Client) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   name,
	}
}

func (b *OpenAIBackend) Name() string { return b.name }

// Complete returns the content of the first choice. A non-success response
// becomes a backend error carrying the service's own message when it sent one.
func (b *OpenAIBackend) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    chatRole(m.Role),
			Content: m.Content,
		})
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewTransportError("generation backend returned no choices", domain.ErrBackendUnreachable)
	}
	return resp.Choices[0].Message.Content, nil
}

func chatRole(r domain.Role) string {
	switch r {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewBackendError(apiErr.Message, apiErr.HTTPStatusCode, fmt.Errorf("%w: %w", domain.ErrBackendRejected, err))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apperrors.NewBackendError("", reqErr.HTTPStatusCode, fmt.Errorf("%w: %w", domain.ErrBackendRejected, err))
	}
	return apperrors.NewTransportError(err.Error(), fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err))
}
