package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

const (
	pathEmbeddings      = "/embeddings"
	pathChatCompletions = "/chat/completions"
)

// Client talks to the OpenRouter API for embeddings and chat completions.
// Streaming calls use a client without an overall timeout: http.Client's
// Timeout keeps counting while the body is read, which would kill long
// completions mid-stream. The request context bounds them instead.
type Client struct {
	cfg          *Config
	HTTPClient   *http.Client
	StreamClient *http.Client
	Log          *slog.Logger
}

// NewClient creates a new OpenRouter client.
func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		StreamClient: &http.Client{},
		Log:          log,
	}
}

func (c *Client) buildURL(endpoint string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + endpoint
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed converts a single text into a vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one request. The result is aligned with
// the input by index and the call fails if any vector is missing, so the
// caller never stores a misattributed embedding.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty embedding batch: %w", domain.ErrValidation)
	}

	reqBody := embeddingsRequest{
		Model: c.cfg.EmbeddingModel,
		Input: texts,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embeddings request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(pathEmbeddings), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute embeddings request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embeddings response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("embeddings request failed",
			"status_code", resp.StatusCode,
			"batch_size", len(texts),
			"body_preview", truncateString(string(body), 200),
		)
		return nil, &domain.UpstreamError{
			Service:  "openrouter",
			Endpoint: pathEmbeddings,
			Status:   resp.StatusCode,
			Body:     truncateString(string(body), 500),
		}
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse embeddings response: %w", err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings count mismatch: sent %d, got %d: %w",
			len(texts), len(parsed.Data), domain.ErrUpstream)
	}

	vectors := make([][]float64, len(texts))
	for _, item := range parsed.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range: %w", item.Index, domain.ErrUpstream)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d: %w", i, domain.ErrUpstream)
		}
	}

	return vectors, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// StreamCompletion starts a streaming chat completion and returns the
// raw SSE body. The caller owns the body and must close it.
func (c *Client) StreamCompletion(ctx context.Context, model string, messages []domain.ConversationTurn) (io.ReadCloser, error) {
	reqBody := chatCompletionRequest{
		Model:    model,
		Messages: make([]chatMessage, 0, len(messages)),
		Stream:   true,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(pathChatCompletions), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.StreamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute completion request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.Log.Debug("completion request failed",
			"model", model,
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		return nil, &domain.UpstreamError{
			Service:  "openrouter",
			Endpoint: pathChatCompletions,
			Status:   resp.StatusCode,
			Body:     truncateString(string(body), 500),
		}
	}

	return resp.Body, nil
}
