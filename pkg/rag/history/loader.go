package history

import (
	"context"
	"strings"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/llm"
)

// Loader fetches the recent conversation window for LLM context.
type Loader struct {
	turns int
}

// NewLoader builds a loader keeping the last turns exchanges. One turn is
// a user message plus the assistant reply, so the window holds 2*turns rows.
func NewLoader(turns int) *Loader {
	return &Loader{turns: turns}
}

// Load returns the newest 2*turns messages in chronological order.
func (l *Loader) Load(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64) ([]llm.Message, error) {
	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: l.turns * 2},
	)
	if err != nil {
		return nil, err
	}

	// Rows arrive newest first; replay them chronologically for the prompt.
	messages := make([]llm.Message, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		role := constant.ChatMessageRoleUser
		if rows[i].Role == constant.ChatMessageRoleAssistant {
			role = constant.ChatMessageRoleAssistant
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: rows[i].Content,
		})
	}

	return messages, nil
}

// FormatTranscript renders messages as a plain transcript for prompt
// embedding. Empty history renders as an empty string.
func FormatTranscript(messages []llm.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		speaker := "User"
		if msg.Role == constant.ChatMessageRoleAssistant {
			speaker = "Assistant"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}
