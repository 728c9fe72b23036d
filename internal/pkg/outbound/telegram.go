package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender pushes replies back to the chat platform.
type Sender interface {
	SendMessage(ctx context.Context, chatId int64, text string) error
}

// FileFetcher downloads platform-hosted files (document uploads).
type FileFetcher interface {
	FetchFile(ctx context.Context, fileId string) ([]byte, error)
}

// TelegramClient talks to the Bot API for outbound messages and file
// downloads. The base URL is overridable for tests.
type TelegramClient struct {
	Token   string
	BaseURL string
	FileURL string
	Client  *http.Client
}

func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		Token:   token,
		BaseURL: "https://api.telegram.org",
		FileURL: "https://api.telegram.org/file",
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatId int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type fileResult struct {
	FilePath string `json:"file_path"`
}

func (t *TelegramClient) SendMessage(ctx context.Context, chatId int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatId: chatId, Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal sendMessage request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode sendMessage response: %w", err)
	}
	if !parsed.Ok {
		return fmt.Errorf("sendMessage rejected: %s", parsed.Description)
	}
	return nil
}

// FetchFile resolves a file_id via getFile and downloads its bytes.
func (t *TelegramClient) FetchFile(ctx context.Context, fileId string) ([]byte, error) {
	url := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", t.BaseURL, t.Token, fileId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create getFile request: %w", err)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getFile request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode getFile response: %w", err)
	}
	if !parsed.Ok {
		return nil, fmt.Errorf("getFile rejected: %s", parsed.Description)
	}

	var file fileResult
	if err := json.Unmarshal(parsed.Result, &file); err != nil {
		return nil, fmt.Errorf("failed to parse getFile result: %w", err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("getFile returned no file_path for %s", fileId)
	}

	downloadURL := fmt.Sprintf("%s/bot%s/%s", t.FileURL, t.Token, file.FilePath)
	dlReq, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	dlResp, err := t.Client.Do(dlReq)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", dlResp.StatusCode)
	}
	return io.ReadAll(dlResp.Body)
}
