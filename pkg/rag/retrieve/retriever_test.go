package retrieve

import (
	"context"
	"errors"
	"testing"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
)

type stubEmbedder struct {
	err      error
	taskType string
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	s.taskType = taskType
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeChunkRepo struct {
	hits         []*contract.ScoredDocumentChunk
	searchErr    error
	gotLimit     int
	gotConvId    int64
	gotThreshold float64
}

func (f *fakeChunkRepo) UpsertBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}

func (f *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, conversationId int64, threshold float64) ([]*contract.ScoredDocumentChunk, error) {
	f.gotLimit = limit
	f.gotConvId = conversationId
	f.gotThreshold = threshold
	return f.hits, f.searchErr
}

type fakeUow struct {
	chunkRepo *fakeChunkRepo
}

func (f *fakeUow) Begin(ctx context.Context) error                           { return nil }
func (f *fakeUow) Commit() error                                             { return nil }
func (f *fakeUow) Rollback() error                                           { return nil }
func (f *fakeUow) PersonaRepository() contract.PersonaRepository             { return nil }
func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository     { return nil }
func (f *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository { return f.chunkRepo }

var _ unitofwork.UnitOfWork = (*fakeUow)(nil)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func scored(text string, similarity float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk:      &entity.DocumentChunk{Document: text},
		Similarity: similarity,
	}
}

func TestRetrievePassesTunables(t *testing.T) {
	repo := &fakeChunkRepo{hits: []*contract.ScoredDocumentChunk{scored("a", 0.9)}}
	embedder := &stubEmbedder{}
	retriever := NewRetriever(embedder, noopLogger{}, 5, 0.5)

	texts, err := retriever.Retrieve(context.Background(), &fakeUow{chunkRepo: repo}, 42, "what happened?")

	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, texts)
	assert.Equal(t, 5, repo.gotLimit)
	assert.Equal(t, int64(42), repo.gotConvId)
	assert.Equal(t, 0.5, repo.gotThreshold)
	assert.Equal(t, embedding.TaskRetrievalQuery, embedder.taskType)
}

func TestRetrievePreservesSimilarityOrder(t *testing.T) {
	repo := &fakeChunkRepo{hits: []*contract.ScoredDocumentChunk{
		scored("best", 0.95),
		scored("good", 0.7),
		scored("ok", 0.55),
	}}
	retriever := NewRetriever(&stubEmbedder{}, noopLogger{}, 5, 0.5)

	texts, err := retriever.Retrieve(context.Background(), &fakeUow{chunkRepo: repo}, 1, "q")

	assert.NoError(t, err)
	assert.Equal(t, []string{"best", "good", "ok"}, texts)
}

func TestRetrieveNoHitsIsNotAnError(t *testing.T) {
	repo := &fakeChunkRepo{}
	retriever := NewRetriever(&stubEmbedder{}, noopLogger{}, 5, 0.5)

	texts, err := retriever.Retrieve(context.Background(), &fakeUow{chunkRepo: repo}, 1, "q")

	assert.NoError(t, err)
	assert.Empty(t, texts)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	retriever := NewRetriever(&stubEmbedder{err: errors.New("quota exceeded")}, noopLogger{}, 5, 0.5)

	_, err := retriever.Retrieve(context.Background(), &fakeUow{chunkRepo: &fakeChunkRepo{}}, 1, "q")

	assert.Error(t, err)
}

func TestRetrieveSearchFailure(t *testing.T) {
	repo := &fakeChunkRepo{searchErr: errors.New("db down")}
	retriever := NewRetriever(&stubEmbedder{}, noopLogger{}, 5, 0.5)

	_, err := retriever.Retrieve(context.Background(), &fakeUow{chunkRepo: repo}, 1, "q")

	assert.Error(t, err)
}

func TestJoinContext(t *testing.T) {
	assert.Equal(t, "", JoinContext(nil))
	assert.Equal(t, "a", JoinContext([]string{"a"}))
	assert.Equal(t, "a\n\nb", JoinContext([]string{"a", "b"}))
}
