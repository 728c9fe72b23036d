package persona

import (
	"context"
	"fmt"
	"strings"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/pkg/llm"
)

// maxLabelLen guards against the model rambling instead of answering with
// a bare name. Anything longer is treated as "no persona".
const maxLabelLen = 100

// Classifier asks the LLM whether a message instructs the bot to adopt a
// persona. It never fails: any provider error collapses to "no persona".
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewClassifier(llmProvider llm.LLMProvider, logger logger.ILogger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify returns the character name the message asks for, or "" when the
// message carries no persona instruction.
func (c *Classifier) Classify(ctx context.Context, query string) string {
	promptText := fmt.Sprintf(constant.ClassifyPersonaPromptV1, query)

	raw, err := c.llmProvider.Generate(ctx, promptText,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(32),
	)
	if err != nil {
		c.logger.Warn("PersonaClassifier", "classification failed, treating as no persona", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	label := strings.TrimSpace(raw)
	label = strings.Trim(label, `"'.`)
	if label == "" || len([]rune(label)) > maxLabelLen {
		return ""
	}
	if strings.EqualFold(label, constant.PersonaNone) {
		return ""
	}
	return label
}
