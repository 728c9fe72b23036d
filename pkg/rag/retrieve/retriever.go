package retrieve

import (
	"context"
	"strings"

	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/embedding"
)

// Retriever answers "what did this conversation's documents say about X".
// Results are scoped to one conversation; documents never leak across chats.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
	topK              int
	threshold         float64
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, logger logger.ILogger, topK int, threshold float64) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		logger:            logger,
		topK:              topK,
		threshold:         threshold,
	}
}

// Retrieve embeds the query and returns the matching chunk texts, most
// similar first. An empty result is a normal outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, query string) ([]string, error) {
	embeddingResponse, err := r.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(
		ctx,
		embeddingResponse.Embedding.Values,
		r.topK,
		conversationId,
		r.threshold,
	)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(scored))
	for _, hit := range scored {
		texts = append(texts, hit.Chunk.Document)
	}

	r.logger.Debug("Retriever", "retrieval done", map[string]interface{}{
		"conversation_id": conversationId,
		"hits":            len(texts),
	})
	return texts, nil
}

// JoinContext flattens retrieved chunks into one prompt block.
func JoinContext(chunks []string) string {
	return strings.Join(chunks, "\n\n")
}
