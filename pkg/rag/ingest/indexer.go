package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/embedding"
	"persona-chat-be/pkg/loader"
	"persona-chat-be/pkg/utils"

	"github.com/google/uuid"
)

// Indexer turns an uploaded document into searchable chunks for one
// conversation. Chunk ids are content-addressed, so re-uploading the same
// bytes overwrites the same rows instead of duplicating them.
type Indexer struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
	chunkSize         int
	chunkOverlap      int
}

func NewIndexer(embeddingProvider embedding.EmbeddingProvider, logger logger.ILogger, chunkSize, chunkOverlap int) *Indexer {
	return &Indexer{
		embeddingProvider: embeddingProvider,
		logger:            logger,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

// GenerateFileHash returns the hex sha256 of the raw file bytes. It is the
// stable prefix of every chunk id derived from that file.
func GenerateFileHash(fileBytes []byte) string {
	sum := sha256.Sum256(fileBytes)
	return hex.EncodeToString(sum[:])
}

// ChunkId derives the deterministic id of the i-th chunk of a file.
func ChunkId(fileHash string, index int) string {
	return fmt.Sprintf("%s-%d", fileHash, index)
}

// Result reports a finished ingestion run.
type Result struct {
	Status     string
	ChunkCount int
}

// Ingest extracts, splits, embeds, and stores the document inside one
// transaction. Result.Status is a user-facing line.
func (ix *Indexer) Ingest(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, fileName string, fileBytes []byte) (*Result, error) {
	pages, err := loader.Load(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", fileName, err)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return nil, fmt.Errorf("document %s contains no text", fileName)
	}

	chunks := utils.SplitText(text, ix.chunkSize, ix.chunkOverlap)
	fileHash := GenerateFileHash(fileBytes)

	now := time.Now()
	entities := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		embeddingResponse, err := ix.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d of %s: %w", i, fileName, err)
		}
		entities = append(entities, &entity.DocumentChunk{
			Id:             uuid.New(),
			ChunkId:        ChunkId(fileHash, i),
			ConversationId: conversationId,
			Document:       chunk,
			EmbeddingValue: embeddingResponse.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to start ingestion transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().UpsertBulk(ctx, entities); err != nil {
		return nil, fmt.Errorf("failed to store chunks for %s: %w", fileName, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ingestion for %s: %w", fileName, err)
	}

	ix.logger.Info("Indexer", "document indexed", map[string]interface{}{
		"conversation_id": conversationId,
		"file_name":       fileName,
		"chunks":          len(entities),
	})
	return &Result{
		Status:     fmt.Sprintf("Done! I've read %s (%d passages). Ask me anything about it.", fileName, len(entities)),
		ChunkCount: len(entities),
	}, nil
}
