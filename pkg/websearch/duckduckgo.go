package websearch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"persona-chat-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	chatStatusURL  = "https://duckduckgo.com/duckchat/v1/status"
	chatURL        = "https://duckduckgo.com/duckchat/v1/chat"
	instantBaseURL = "https://api.duckduckgo.com/"

	chatModel = "gpt-4o-mini"
)

// DuckDuckGoProvider answers with the conversational duckchat endpoint and
// falls back to the Instant Answer API when that fails. Results are cached
// briefly: webhook retries and follow-up questions tend to repeat queries.
type DuckDuckGoProvider struct {
	client *http.Client
	cache  *cache.Cache
	log    logger.ILogger

	// overridable in tests
	statusURL  string
	chatURL    string
	instantURL string
}

func NewDuckDuckGoProvider(log logger.ILogger) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache:      cache.New(15*time.Minute, 30*time.Minute),
		log:        log,
		statusURL:  chatStatusURL,
		chatURL:    chatURL,
		instantURL: instantBaseURL,
	}
}

var _ SearchProvider = &DuckDuckGoProvider{}

// Search runs the primary conversational lookup, then the instant-answer
// fallback. Both failing yields "". Web context is low-trust auxiliary
// input and must never break the pipeline.
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) string {
	if query == "" {
		return ""
	}

	if cached, found := p.cache.Get(query); found {
		return cached.(string)
	}

	result, err := p.chatSearch(ctx, query)
	if err != nil {
		p.log.Warn("websearch", "Primary web search failed, trying instant answer", map[string]interface{}{
			"error": err.Error(),
		})
		result, err = p.instantAnswer(ctx, query)
		if err != nil {
			p.log.Warn("websearch", "Instant answer fallback failed", map[string]interface{}{
				"error": err.Error(),
			})
			return ""
		}
	}

	if result != "" {
		p.cache.Set(query, result, cache.DefaultExpiration)
	}
	return result
}

// chatSearch talks to the duckchat endpoint: fetch a vqd token, then post
// the query and collect the streamed message fragments.
func (p *DuckDuckGoProvider) chatSearch(ctx context.Context, query string) (string, error) {
	statusReq, err := http.NewRequestWithContext(ctx, "GET", p.statusURL, nil)
	if err != nil {
		return "", err
	}
	statusReq.Header.Set("x-vqd-accept", "1")

	statusRes, err := p.client.Do(statusReq)
	if err != nil {
		return "", fmt.Errorf("vqd token request failed: %w", err)
	}
	io.Copy(io.Discard, statusRes.Body)
	statusRes.Body.Close()

	vqd := statusRes.Header.Get("x-vqd-4")
	if vqd == "" {
		return "", fmt.Errorf("no vqd token in status response (code %d)", statusRes.StatusCode)
	}

	payload := map[string]interface{}{
		"model": chatModel,
		"messages": []map[string]string{
			{"role": "user", "content": query},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	chatReq, err := http.NewRequestWithContext(ctx, "POST", p.chatURL, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	chatReq.Header.Set("Content-Type", "application/json")
	chatReq.Header.Set("x-vqd-4", vqd)

	chatRes, err := p.client.Do(chatReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer chatRes.Body.Close()

	if chatRes.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(chatRes.Body)
		return "", fmt.Errorf("chat error: status %d, body %s", chatRes.StatusCode, string(body))
	}

	// Server-sent events: each line is `data: {"message":"..."}` and the
	// stream ends with `data: [DONE]`.
	var answer strings.Builder
	scanner := bufio.NewScanner(chatRes.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}
		var fragment struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(data), &fragment); err == nil {
			answer.WriteString(fragment.Message)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read chat stream: %w", err)
	}

	result := strings.TrimSpace(answer.String())
	if result == "" {
		return "", fmt.Errorf("chat returned empty answer")
	}
	return result, nil
}

// instantAnswer queries the Instant Answer API and picks the best available
// field: abstract, direct answer, definition, then related topics.
func (p *DuckDuckGoProvider) instantAnswer(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", p.instantURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("instant answer request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("instant answer error: status %d", res.StatusCode)
	}

	var result struct {
		AbstractText  string `json:"AbstractText"`
		Answer        string `json:"Answer"`
		Definition    string `json:"Definition"`
		RelatedTopics []struct {
			Text string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal instant answer: %w", err)
	}

	switch {
	case result.AbstractText != "":
		return result.AbstractText, nil
	case result.Answer != "":
		return result.Answer, nil
	case result.Definition != "":
		return result.Definition, nil
	}

	var topics []string
	for i, t := range result.RelatedTopics {
		if i >= 3 {
			break
		}
		if t.Text != "" {
			topics = append(topics, t.Text)
		}
	}
	if len(topics) == 0 {
		return "", fmt.Errorf("instant answer had no usable fields")
	}
	return strings.Join(topics, "\n"), nil
}
