package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one bounded slice of an ingested document together with
// its embedding. ChunkId is content-addressed (file hash + sequence index)
// so re-ingesting identical bytes overwrites instead of duplicating.
type DocumentChunk struct {
	Id             uuid.UUID
	ChunkId        string
	ConversationId int64
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
