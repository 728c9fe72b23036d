package service

import (
	"context"
	"encoding/json"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/outbound"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/events"
	pktNats "persona-chat-be/pkg/nats"
	"persona-chat-be/pkg/rag/ingest"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// DocumentIndexer runs the ingestion pipeline for one document.
type DocumentIndexer interface {
	Ingest(ctx context.Context, uow unitofwork.UnitOfWork, conversationId int64, fileName string, fileBytes []byte) (*ingest.Result, error)
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	indexer        DocumentIndexer
	sender         outbound.Sender
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	indexer DocumentIndexer,
	sender outbound.Sender,
	eventPublisher *pktNats.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		indexer:        indexer,
		sender:         sender,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal ingest job", map[string]interface{}{
			"error": err.Error(),
		})
		// A malformed job never becomes valid; ack to stop the retry loop.
		msg.Ack()
		return
	}

	cs.logger.Info("ConsumerService", "processing document ingestion", map[string]interface{}{
		"conversation_id": payload.ConversationId,
		"file_name":       payload.FileName,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	result, err := cs.indexer.Ingest(ctx, uow, payload.ConversationId, payload.FileName, payload.FileBytes)
	if err != nil {
		cs.logger.Error("ConsumerService", "ingestion failed", map[string]interface{}{
			"conversation_id": payload.ConversationId,
			"file_name":       payload.FileName,
			"error":           err.Error(),
		})
		cs.publishEvent(ctx, events.NewDocumentIngestFailed(payload.ConversationId, payload.FileName, err.Error()))
		cs.notify(ctx, payload.ConversationId, constant.IngestFailedMessage)
		msg.Ack()
		return
	}

	cs.publishEvent(ctx, events.NewDocumentIngested(payload.ConversationId, payload.FileName, result.ChunkCount))
	cs.notify(ctx, payload.ConversationId, result.Status)
	msg.Ack()
}

func (cs *consumerService) publishEvent(ctx context.Context, evt events.Event) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Warn("ConsumerService", "failed to publish event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}

func (cs *consumerService) notify(ctx context.Context, conversationId int64, text string) {
	if cs.sender == nil {
		return
	}
	if err := cs.sender.SendMessage(ctx, conversationId, text); err != nil {
		cs.logger.Warn("ConsumerService", "failed to send completion message", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}
