package domain

import "context"

// Role of a chat message sent to a generation backend.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type ChatMessage struct {
	Role    Role
	Content string
}

// GenerationBackend produces a completion for an ordered list of messages.
// Implementations return *errors.AppError values of type backend or transport.
type GenerationBackend interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
	Name() string
}
