package persona

import (
	"context"
	"time"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/unitofwork"
)

// Labeler extracts a persona name from a message, "" when there is none.
type Labeler interface {
	Classify(ctx context.Context, query string) string
}

// Resolver decides which persona a conversation speaks as. A query that
// sets a persona is persisted before the value is returned, so a crash
// between classification and reply never loses the instruction.
type Resolver struct {
	labeler Labeler
	logger  logger.ILogger
}

func NewResolver(labeler Labeler, logger logger.ILogger) *Resolver {
	return &Resolver{
		labeler: labeler,
		logger:  logger,
	}
}

// Resolve returns the conversation's effective persona and whether the
// current query set it. An empty persona means the caller should
// short-circuit with the no-persona reply.
func (r *Resolver) Resolve(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, query string) (string, bool) {
	label := r.labeler.Classify(ctx, query)
	if label != "" {
		err := uow.PersonaRepository().Upsert(ctx, &entity.Persona{
			ConversationId: conversationId,
			Persona:        label,
			UpdatedAt:      time.Now(),
		})
		if err != nil {
			// The write-through is mandatory: if it fails, the new label
			// is discarded and the stored persona stays authoritative.
			r.logger.Error("PersonaResolver", "failed to persist persona", map[string]interface{}{
				"conversation_id": conversationId,
				"persona":         label,
				"error":           err.Error(),
			})
		} else {
			return label, true
		}
	}

	stored, err := uow.PersonaRepository().FindByConversationId(ctx, conversationId)
	if err != nil {
		r.logger.Error("PersonaResolver", "failed to load stored persona", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
		return "", false
	}
	if stored == nil {
		return "", false
	}
	return stored.Persona, false
}
