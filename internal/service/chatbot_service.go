package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/llm"
	"persona-chat-be/pkg/rag/history"
	"persona-chat-be/pkg/rag/prompt"
	"persona-chat-be/pkg/rag/retrieve"
	"persona-chat-be/pkg/websearch"

	"github.com/google/uuid"
)

// Per-capability deadlines. Retrieval, search, and history run inside the
// concurrent gather; generation gets the longest one.
const (
	classifyTimeout   = 15 * time.Second
	retrievalTimeout  = 10 * time.Second
	searchTimeout     = 10 * time.Second
	historyTimeout    = 5 * time.Second
	generationTimeout = 60 * time.Second
)

// IChatbotService is the conversational entry point. Answer and
// IngestDocument are total: they always return something sendable to the
// user, never an error.
type IChatbotService interface {
	Answer(ctx context.Context, conversationId int64, query string) string
	IngestDocument(ctx context.Context, conversationId int64, fileName string, fileBytes []byte) string
}

// PersonaResolver yields the conversation's effective persona; "" means
// no persona is set and the current query doesn't set one.
type PersonaResolver interface {
	Resolve(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, query string) (string, bool)
}

// ContextRetriever finds document chunks relevant to the query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, query string) ([]string, error)
}

// HistoryLoader fetches the recent conversation window.
type HistoryLoader interface {
	Load(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64) ([]llm.Message, error)
}

// AnswerGenerator turns a built prompt into the final reply text.
type AnswerGenerator interface {
	Generate(ctx context.Context, promptText string) string
}

type chatbotService struct {
	uowFactory       unitofwork.RepositoryFactory
	personaResolver  PersonaResolver
	retriever        ContextRetriever
	historyLoader    HistoryLoader
	generator        AnswerGenerator
	searchProvider   websearch.SearchProvider
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	personaResolver PersonaResolver,
	retriever ContextRetriever,
	historyLoader HistoryLoader,
	generator AnswerGenerator,
	searchProvider websearch.SearchProvider,
	publisherService IPublisherService,
	logger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		uowFactory:       uowFactory,
		personaResolver:  personaResolver,
		retriever:        retriever,
		historyLoader:    historyLoader,
		generator:        generator,
		searchProvider:   searchProvider,
		publisherService: publisherService,
		logger:           logger,
	}
}

// Answer runs the full pipeline: persona resolution, the concurrent
// context gather, prompt assembly, and generation. Any branch failing
// degrades that branch to empty content instead of failing the reply.
func (cs *chatbotService) Answer(ctx context.Context, conversationId int64, query string) string {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	classifyCtx, cancelClassify := context.WithTimeout(ctx, classifyTimeout)
	personaName, setNow := cs.personaResolver.Resolve(classifyCtx, uow, conversationId, query)
	cancelClassify()

	if personaName == "" {
		cs.appendExchange(ctx, conversationId, query, constant.NoPersonaMessage)
		return constant.NoPersonaMessage
	}

	cs.logger.Debug("ChatbotService", "persona resolved", map[string]interface{}{
		"conversation_id": conversationId,
		"persona":         personaName,
		"set_by_query":    setNow,
	})

	var (
		wg              sync.WaitGroup
		retrievedChunks []string
		webResults      string
		historyMessages []llm.Message
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rctx, cancel := context.WithTimeout(ctx, retrievalTimeout)
		defer cancel()
		chunks, err := cs.retriever.Retrieve(rctx, cs.uowFactory.NewUnitOfWork(ctx), conversationId, query)
		if err != nil {
			cs.logger.Warn("ChatbotService", "retrieval failed, continuing without documents", map[string]interface{}{
				"conversation_id": conversationId,
				"error":           err.Error(),
			})
			return
		}
		retrievedChunks = chunks
	}()
	go func() {
		defer wg.Done()
		sctx, cancel := context.WithTimeout(ctx, searchTimeout)
		defer cancel()
		webResults = cs.searchProvider.Search(sctx, personaName+" "+query)
	}()
	go func() {
		defer wg.Done()
		hctx, cancel := context.WithTimeout(ctx, historyTimeout)
		defer cancel()
		messages, err := cs.historyLoader.Load(hctx, cs.uowFactory.NewUnitOfWork(ctx), conversationId)
		if err != nil {
			cs.logger.Warn("ChatbotService", "history load failed, continuing without history", map[string]interface{}{
				"conversation_id": conversationId,
				"error":           err.Error(),
			})
			return
		}
		historyMessages = messages
	}()
	wg.Wait()

	promptText := prompt.NewBuilder(
		personaName,
		history.FormatTranscript(historyMessages),
		webResults,
		retrieve.JoinContext(retrievedChunks),
		query,
	).Build()

	genCtx, cancelGen := context.WithTimeout(ctx, generationTimeout)
	answer := cs.generator.Generate(genCtx, promptText)
	cancelGen()

	cs.appendExchange(ctx, conversationId, query, answer)
	return answer
}

// IngestDocument enqueues the document for background indexing and
// acknowledges immediately. The completion message arrives through the
// consumer once indexing finishes.
func (cs *chatbotService) IngestDocument(ctx context.Context, conversationId int64, fileName string, fileBytes []byte) string {
	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{
		ConversationId: conversationId,
		FileName:       fileName,
		FileBytes:      fileBytes,
	})
	if err != nil {
		cs.logger.Error("ChatbotService", "failed to marshal ingest job", map[string]interface{}{
			"conversation_id": conversationId,
			"file_name":       fileName,
			"error":           err.Error(),
		})
		return constant.IngestFailedMessage
	}

	if err := cs.publisherService.Publish(ctx, payload); err != nil {
		cs.logger.Error("ChatbotService", "failed to enqueue ingest job", map[string]interface{}{
			"conversation_id": conversationId,
			"file_name":       fileName,
			"error":           err.Error(),
		})
		return constant.IngestFailedMessage
	}

	return constant.IngestAcknowledgeMessage
}

// appendExchange writes the user question and the reply to the
// append-only log. Failures are logged and swallowed: losing one history
// row must not lose the reply.
func (cs *chatbotService) appendExchange(ctx context.Context, conversationId int64, query, answer string) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	userMessage := &entity.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           constant.ChatMessageRoleUser,
		Content:        query,
		CreatedAt:      now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		cs.logger.Error("ChatbotService", "failed to store user message", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}

	assistantMessage := &entity.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           constant.ChatMessageRoleAssistant,
		Content:        answer,
		CreatedAt:      now.Add(time.Millisecond),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		cs.logger.Error("ChatbotService", "failed to store assistant message", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}
