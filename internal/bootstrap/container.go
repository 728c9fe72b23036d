package bootstrap

import (
	"context"
	"log"

	"persona-chat-be/internal/config"
	"persona-chat-be/internal/controller"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/outbound"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/internal/service"
	"persona-chat-be/pkg/embedding"
	"persona-chat-be/pkg/llm/factory"
	pktNats "persona-chat-be/pkg/nats"
	"persona-chat-be/pkg/rag/history"
	"persona-chat-be/pkg/rag/ingest"
	"persona-chat-be/pkg/rag/persona"
	"persona-chat-be/pkg/rag/response"
	"persona-chat-be/pkg/rag/retrieve"
	"persona-chat-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	ChatbotController controller.IChatbotController

	// Background workers
	ConsumerService service.IConsumerService

	// Shared infrastructure
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	telegramClient := outbound.NewTelegramClient(cfg.Keys.TelegramToken)

	// 5. Pipeline components. The pipeline log is chatty (per-chunk embed
	// calls, prompt sizes), so it gets its own file and stays off the console.
	ragLogger := logger.NewIsolatedLogger("logs/rag_pipeline.log")
	classifier := persona.NewClassifier(llmProvider, ragLogger)
	personaResolver := persona.NewResolver(classifier, ragLogger)
	retriever := retrieve.NewRetriever(embeddingProvider, ragLogger, cfg.Rag.TopK, cfg.Rag.SimilarityThreshold)
	historyLoader := history.NewLoader(cfg.Rag.HistoryTurns)
	generator := response.NewGenerator(llmProvider, ragLogger)
	indexer := ingest.NewIndexer(embeddingProvider, ragLogger, cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap)
	searchProvider := websearch.NewDuckDuckGoProvider(ragLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		indexer,
		telegramClient,
		natsPub,
		sysLogger,
	)

	chatbotService := service.NewChatbotService(
		uowFactory,
		personaResolver,
		retriever,
		historyLoader,
		generator,
		searchProvider,
		publisherService,
		sysLogger,
	)

	// 7. Controllers
	webhookController := controller.NewWebhookController(
		chatbotService,
		telegramClient,
		telegramClient,
		rdb,
		cfg.Keys.TelegramToken,
		sysLogger,
	)
	chatbotController := controller.NewChatbotController(chatbotService)

	return &Container{
		WebhookController: webhookController,
		ChatbotController: chatbotController,
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
