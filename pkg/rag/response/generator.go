package response

import (
	"context"
	"strings"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/pkg/llm"
)

// Generator turns a fully built prompt into the final answer. It is total:
// provider failures surface to the user as a fixed error sentence, never
// as an empty reply or a Go error.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, logger logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (g *Generator) Generate(ctx context.Context, promptText string) string {
	answer, err := g.llmProvider.Generate(ctx, promptText)
	if err != nil {
		g.logger.Error("ResponseGenerator", "generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.GenerationErrorMessage
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		g.logger.Warn("ResponseGenerator", "provider returned empty answer", nil)
		return constant.GenerationErrorMessage
	}
	return answer
}
