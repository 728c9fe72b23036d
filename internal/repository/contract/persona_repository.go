package contract

import (
	"context"

	"persona-chat-be/internal/entity"
)

type PersonaRepository interface {
	// Upsert writes the conversation's persona, last-write-wins.
	Upsert(ctx context.Context, persona *entity.Persona) error
	// FindByConversationId returns nil, nil when no persona was ever set.
	FindByConversationId(ctx context.Context, conversationId int64) (*entity.Persona, error)
}
