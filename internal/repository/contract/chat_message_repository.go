package contract

import (
	"context"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	// Create appends one message. The log is append-only; there is no
	// update or delete.
	Create(ctx context.Context, message *entity.ChatMessage) error
	// FindAll returns messages matching the given specifications. Callers
	// compose the scope, ordering, and window at the call site.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
}
