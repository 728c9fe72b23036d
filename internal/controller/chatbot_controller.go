package controller

import (
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IChatbotController exposes the pipeline over plain HTTP for clients
// that aren't behind the Telegram webhook (local testing, other frontends).
type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Answer(ctx *fiber.Ctx) error
	IngestDocument(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("answer", c.Answer)
	h.Post("ingest", c.IngestDocument)
}

func (c *chatbotController) Answer(ctx *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	answer := c.chatbotService.Answer(ctx.Context(), req.ConversationId, req.Query)

	return ctx.JSON(serverutils.SuccessResponse("Success answer", dto.AnswerResponse{Answer: answer}))
}

func (c *chatbotController) IngestDocument(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	status := c.chatbotService.IngestDocument(ctx.Context(), req.ConversationId, req.FileName, req.FileBytes)

	return ctx.JSON(serverutils.SuccessResponse("Success ingest document", dto.IngestDocumentResponse{Status: status}))
}
