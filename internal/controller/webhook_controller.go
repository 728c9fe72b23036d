package controller

import (
	"context"
	"fmt"
	"time"

	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/outbound"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// updateDedupTTL bounds how long a processed update_id is remembered.
// Telegram retries failed webhooks for roughly a day.
const updateDedupTTL = 24 * time.Hour

// processTimeout caps one update's background processing, generation
// included.
const processTimeout = 2 * time.Minute

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleTelegramUpdate(ctx *fiber.Ctx) error
}

type webhookController struct {
	chatbotService service.IChatbotService
	fileFetcher    outbound.FileFetcher
	sender         outbound.Sender
	rdb            *redis.Client
	botToken       string
	logger         logger.ILogger
}

func NewWebhookController(
	chatbotService service.IChatbotService,
	fileFetcher outbound.FileFetcher,
	sender outbound.Sender,
	rdb *redis.Client,
	botToken string,
	logger logger.ILogger,
) IWebhookController {
	return &webhookController{
		chatbotService: chatbotService,
		fileFetcher:    fileFetcher,
		sender:         sender,
		rdb:            rdb,
		botToken:       botToken,
		logger:         logger,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook")
	h.Post("/telegram/:token", c.HandleTelegramUpdate)
}

// HandleTelegramUpdate acknowledges the update immediately and processes
// it in the background; Telegram retries anything that doesn't get a fast
// 200, which would duplicate long generations.
func (c *webhookController) HandleTelegramUpdate(ctx *fiber.Ctx) error {
	if ctx.Params("token") != c.botToken {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "invalid webhook token"))
	}

	var update dto.TelegramUpdate
	if err := ctx.BodyParser(&update); err != nil {
		c.logger.Warn("WebhookController", "dropping malformed update", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	}

	if update.Message == nil || update.Message.Chat.Id == 0 {
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	}
	if update.Message.From != nil && update.Message.From.IsBot {
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	}

	if !c.claimUpdate(ctx.Context(), update.UpdateId) {
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	}

	go c.process(update.Message)

	return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
}

// claimUpdate marks the update_id as seen. When Redis is down the claim
// always succeeds; a duplicate reply beats a dropped one.
func (c *webhookController) claimUpdate(ctx context.Context, updateId int64) bool {
	if c.rdb == nil {
		return true
	}
	key := fmt.Sprintf("webhook:telegram:update:%d", updateId)
	claimed, err := c.rdb.SetNX(ctx, key, 1, updateDedupTTL).Result()
	if err != nil {
		c.logger.Warn("WebhookController", "dedup check failed, processing anyway", map[string]interface{}{
			"update_id": updateId,
			"error":     err.Error(),
		})
		return true
	}
	return claimed
}

func (c *webhookController) process(msg *dto.TelegramMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	conversationId := msg.Chat.Id

	var reply string
	switch {
	case msg.Document != nil:
		reply = c.processDocument(ctx, conversationId, msg.Document)
	case msg.Text != "":
		reply = c.chatbotService.Answer(ctx, conversationId, msg.Text)
	default:
		return
	}

	if err := c.sender.SendMessage(ctx, conversationId, reply); err != nil {
		c.logger.Error("WebhookController", "failed to send reply", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}

func (c *webhookController) processDocument(ctx context.Context, conversationId int64, doc *dto.TelegramDocument) string {
	fileBytes, err := c.fileFetcher.FetchFile(ctx, doc.FileId)
	if err != nil {
		c.logger.Error("WebhookController", "failed to download document", map[string]interface{}{
			"conversation_id": conversationId,
			"file_id":         doc.FileId,
			"error":           err.Error(),
		})
		return "Sorry, I couldn't download your document. Please send it again."
	}

	fileName := doc.FileName
	if fileName == "" {
		fileName = doc.FileId
	}
	return c.chatbotService.IngestDocument(ctx, conversationId, fileName, fileBytes)
}
