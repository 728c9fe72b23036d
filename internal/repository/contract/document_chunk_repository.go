package contract

import (
	"context"

	"persona-chat-be/internal/entity"
)

// ScoredDocumentChunk wraps a DocumentChunk with its similarity score
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	// UpsertBulk inserts chunks, overwriting rows with the same chunk_id.
	// Content-addressed ids make re-ingestion of identical bytes idempotent.
	UpsertBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	// SearchSimilarWithScore returns chunks for one conversation with cosine
	// similarity >= threshold, ordered by descending similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, conversationId int64, threshold float64) ([]*ScoredDocumentChunk, error)
}
