package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type recordingChatRepo struct {
	mu      sync.Mutex
	created []*entity.ChatMessage
}

func (r *recordingChatRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, message)
	return nil
}

func (r *recordingChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return nil, nil
}

type fakeUow struct {
	chatRepo *recordingChatRepo
}

func (f *fakeUow) Begin(ctx context.Context) error                           { return nil }
func (f *fakeUow) Commit() error                                             { return nil }
func (f *fakeUow) Rollback() error                                           { return nil }
func (f *fakeUow) PersonaRepository() contract.PersonaRepository             { return nil }
func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository     { return f.chatRepo }
func (f *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository { return nil }

type fakeFactory struct {
	chatRepo *recordingChatRepo
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{chatRepo: f.chatRepo}
}

type stubResolver struct {
	persona   string
	callCount int
}

func (s *stubResolver) Resolve(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, query string) (string, bool) {
	s.callCount++
	return s.persona, s.persona != ""
}

type stubRetriever struct {
	chunks    []string
	err       error
	callCount int
}

func (s *stubRetriever) Retrieve(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, query string) ([]string, error) {
	s.callCount++
	return s.chunks, s.err
}

type stubHistory struct {
	messages  []llm.Message
	err       error
	callCount int
}

func (s *stubHistory) Load(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64) ([]llm.Message, error) {
	s.callCount++
	return s.messages, s.err
}

type stubGenerator struct {
	answer     string
	callCount  int
	lastPrompt string
}

func (s *stubGenerator) Generate(ctx context.Context, promptText string) string {
	s.callCount++
	s.lastPrompt = promptText
	return s.answer
}

type stubSearch struct {
	result    string
	callCount int
	lastTerm  string
}

func (s *stubSearch) Search(ctx context.Context, query string) string {
	s.callCount++
	s.lastTerm = query
	return s.result
}

type stubPublisher struct {
	err       error
	callCount int
	payload   []byte
}

func (s *stubPublisher) Publish(ctx context.Context, payload []byte) error {
	s.callCount++
	s.payload = payload
	return s.err
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type serviceFixture struct {
	service   IChatbotService
	chatRepo  *recordingChatRepo
	resolver  *stubResolver
	retriever *stubRetriever
	history   *stubHistory
	generator *stubGenerator
	search    *stubSearch
	publisher *stubPublisher
}

func newFixture(persona string) *serviceFixture {
	f := &serviceFixture{
		chatRepo:  &recordingChatRepo{},
		resolver:  &stubResolver{persona: persona},
		retriever: &stubRetriever{chunks: []string{"chunk one"}},
		history:   &stubHistory{},
		generator: &stubGenerator{answer: "generated answer"},
		search:    &stubSearch{result: "web snippet"},
		publisher: &stubPublisher{},
	}
	f.service = NewChatbotService(
		&fakeFactory{chatRepo: f.chatRepo},
		f.resolver,
		f.retriever,
		f.history,
		f.generator,
		f.search,
		f.publisher,
		noopLogger{},
	)
	return f
}

func TestAnswerNoPersonaShortCircuits(t *testing.T) {
	f := newFixture("")

	answer := f.service.Answer(context.Background(), 42, "what is the capital of France?")

	assert.Equal(t, constant.NoPersonaMessage, answer)
	assert.Equal(t, 1, f.resolver.callCount)
	// Nothing downstream may run on the short-circuit path.
	assert.Equal(t, 0, f.retriever.callCount)
	assert.Equal(t, 0, f.search.callCount)
	assert.Equal(t, 0, f.generator.callCount)
	assert.Equal(t, 0, f.history.callCount)
	// The exchange is still recorded.
	assert.Len(t, f.chatRepo.created, 2)
}

func TestAnswerFullPipeline(t *testing.T) {
	f := newFixture("Harry Potter")

	answer := f.service.Answer(context.Background(), 42, "tell me about Hogwarts")

	assert.Equal(t, "generated answer", answer)
	assert.Equal(t, 1, f.retriever.callCount)
	assert.Equal(t, 1, f.search.callCount)
	assert.Equal(t, 1, f.history.callCount)
	assert.Equal(t, 1, f.generator.callCount)

	// The prompt carries everything the gather produced.
	assert.Contains(t, f.generator.lastPrompt, "Harry Potter")
	assert.Contains(t, f.generator.lastPrompt, "chunk one")
	assert.Contains(t, f.generator.lastPrompt, "web snippet")
	assert.Contains(t, f.generator.lastPrompt, "tell me about Hogwarts")
}

func TestAnswerSearchTermIncludesPersona(t *testing.T) {
	f := newFixture("Sherlock Holmes")

	f.service.Answer(context.Background(), 42, "who is Moriarty?")

	assert.Equal(t, "Sherlock Holmes who is Moriarty?", f.search.lastTerm)
}

func TestAnswerRetrievalFailureDegradesToEmpty(t *testing.T) {
	f := newFixture("Harry Potter")
	f.retriever.chunks = nil
	f.retriever.err = errors.New("embedding quota exceeded")

	answer := f.service.Answer(context.Background(), 42, "tell me about Hogwarts")

	assert.Equal(t, "generated answer", answer)
	assert.Equal(t, 1, f.generator.callCount)
	assert.NotContains(t, f.generator.lastPrompt, "chunk one")
}

func TestAnswerHistoryFailureDegradesToEmpty(t *testing.T) {
	f := newFixture("Harry Potter")
	f.history.err = errors.New("db down")

	answer := f.service.Answer(context.Background(), 42, "tell me about Hogwarts")

	assert.Equal(t, "generated answer", answer)
}

func TestAnswerRecordsExchange(t *testing.T) {
	f := newFixture("Harry Potter")

	f.service.Answer(context.Background(), 42, "tell me about Hogwarts")

	assert.Len(t, f.chatRepo.created, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, f.chatRepo.created[0].Role)
	assert.Equal(t, "tell me about Hogwarts", f.chatRepo.created[0].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, f.chatRepo.created[1].Role)
	assert.Equal(t, "generated answer", f.chatRepo.created[1].Content)
}

func TestAnswerGenerationErrorStillRecorded(t *testing.T) {
	f := newFixture("Harry Potter")
	f.generator.answer = constant.GenerationErrorMessage

	answer := f.service.Answer(context.Background(), 42, "tell me about Hogwarts")

	assert.Equal(t, constant.GenerationErrorMessage, answer)
	assert.True(t, strings.Contains(strings.ToLower(answer), "error"))
	assert.Len(t, f.chatRepo.created, 2)
}

func TestIngestDocumentEnqueuesJob(t *testing.T) {
	f := newFixture("Harry Potter")

	status := f.service.IngestDocument(context.Background(), 42, "notes.txt", []byte("document body"))

	assert.Equal(t, constant.IngestAcknowledgeMessage, status)
	assert.Equal(t, 1, f.publisher.callCount)

	var payload dto.PublishIngestDocumentMessage
	assert.NoError(t, json.Unmarshal(f.publisher.payload, &payload))
	assert.Equal(t, int64(42), payload.ConversationId)
	assert.Equal(t, "notes.txt", payload.FileName)
	assert.Equal(t, []byte("document body"), payload.FileBytes)
}

func TestIngestDocumentPublishFailure(t *testing.T) {
	f := newFixture("Harry Potter")
	f.publisher.err = errors.New("bus closed")

	status := f.service.IngestDocument(context.Background(), 42, "notes.txt", []byte("document body"))

	assert.Equal(t, constant.IngestFailedMessage, status)
}
