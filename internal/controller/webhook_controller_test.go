package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubChatbotService struct {
	answers chan string
}

func (s *stubChatbotService) Answer(ctx context.Context, conversationId int64, query string) string {
	s.answers <- query
	return "stub answer"
}

func (s *stubChatbotService) IngestDocument(ctx context.Context, conversationId int64, fileName string, fileBytes []byte) string {
	return "stub ack"
}

type stubSender struct {
	sent chan string
}

func (s *stubSender) SendMessage(ctx context.Context, chatId int64, text string) error {
	s.sent <- text
	return nil
}

type stubFetcher struct{}

func (stubFetcher) FetchFile(ctx context.Context, fileId string) ([]byte, error) {
	return []byte("file body"), nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func newTestApp(svc *stubChatbotService, sender *stubSender) *fiber.App {
	app := fiber.New()
	ctrl := NewWebhookController(svc, stubFetcher{}, sender, nil, "secret-token", noopLogger{})
	ctrl.RegisterRoutes(app.Group("/api"))
	return app
}

func TestWebhookRejectsWrongToken(t *testing.T) {
	app := newTestApp(&stubChatbotService{answers: make(chan string, 1)}, &stubSender{sent: make(chan string, 1)})

	req := httptest.NewRequest("POST", "/api/webhook/telegram/wrong-token", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWebhookAcceptsMalformedBody(t *testing.T) {
	app := newTestApp(&stubChatbotService{answers: make(chan string, 1)}, &stubSender{sent: make(chan string, 1)})

	req := httptest.NewRequest("POST", "/api/webhook/telegram/secret-token", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)

	// Telegram retries non-200 responses forever; malformed updates are
	// acknowledged and dropped.
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWebhookProcessesTextMessage(t *testing.T) {
	svc := &stubChatbotService{answers: make(chan string, 1)}
	sender := &stubSender{sent: make(chan string, 1)}
	app := newTestApp(svc, sender)

	body := `{"update_id":1,"message":{"message_id":10,"chat":{"id":42,"type":"private"},"text":"hello"}}`
	req := httptest.NewRequest("POST", "/api/webhook/telegram/secret-token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case query := <-svc.answers:
		assert.Equal(t, "hello", query)
	case <-time.After(5 * time.Second):
		t.Fatal("Answer was never called")
	}
	select {
	case reply := <-sender.sent:
		assert.Equal(t, "stub answer", reply)
	case <-time.After(5 * time.Second):
		t.Fatal("reply was never sent")
	}
}

func TestWebhookIgnoresBotMessages(t *testing.T) {
	svc := &stubChatbotService{answers: make(chan string, 1)}
	sender := &stubSender{sent: make(chan string, 1)}
	app := newTestApp(svc, sender)

	body := `{"update_id":2,"message":{"message_id":11,"chat":{"id":42,"type":"private"},"from":{"id":7,"is_bot":true},"text":"beep"}}`
	req := httptest.NewRequest("POST", "/api/webhook/telegram/secret-token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case <-svc.answers:
		t.Fatal("bot messages must not reach the pipeline")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWebhookProcessesDocument(t *testing.T) {
	svc := &stubChatbotService{answers: make(chan string, 1)}
	sender := &stubSender{sent: make(chan string, 1)}
	app := newTestApp(svc, sender)

	body := `{"update_id":3,"message":{"message_id":12,"chat":{"id":42,"type":"private"},"document":{"file_id":"abc","file_name":"notes.txt"}}}`
	req := httptest.NewRequest("POST", "/api/webhook/telegram/secret-token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case reply := <-sender.sent:
		assert.Equal(t, "stub ack", reply)
	case <-time.After(5 * time.Second):
		t.Fatal("ingest acknowledgement was never sent")
	}
}
