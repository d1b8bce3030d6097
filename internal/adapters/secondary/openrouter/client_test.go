package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Config{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		EmbeddingModel: "openai/text-embedding-3-small",
		Timeout:        5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEmbedBatchAlignsByIndex(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization header = %q", auth)
		}

		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Input) != 2 {
			t.Errorf("batch size = %d, want 2", len(req.Input))
		}

		// Data returned out of order; index must win.
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[
			{"index":1,"embedding":[0.3,0.4]},
			{"index":0,"embedding":[0.1,0.2]}
		]}`)
	})

	vectors, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatal(err)
	}
	if vectors[0][0] != 0.1 || vectors[1][0] != 0.3 {
		t.Errorf("vectors misaligned: %v", vectors)
	}
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"index":0,"embedding":[0.1]}]}`)
	})

	_, err := client.EmbedBatch(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error on count mismatch, got %v", err)
	}
}

func TestEmbedBatchUpstreamFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	})

	_, err := client.EmbedBatch(context.Background(), []string{"a"})
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d", upstream.Status)
	}
	if !upstream.Transient() {
		t.Error("429 should be transient")
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty batch")
	})

	_, err := client.EmbedBatch(context.Background(), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStreamCompletionReturnsBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if !req.Stream {
			t.Error("stream flag not set")
		}
		if req.Model != "anthropic/claude-sonnet-4-5" {
			t.Errorf("model = %q", req.Model)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\ndata: [DONE]\n\n")
	})

	body, err := client.StreamCompletion(context.Background(), "anthropic/claude-sonnet-4-5", []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Error("empty stream body")
	}
}

func TestStreamCompletionOutlivesRequestTimeout(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"first\"}}]}\n\n")
		flusher.Flush()
		time.Sleep(150 * time.Millisecond)
		io.WriteString(w, "data: [DONE]\n\n")
	})
	// Embedding timeout far shorter than the stream duration.
	client.HTTPClient.Timeout = 50 * time.Millisecond

	body, err := client.StreamCompletion(context.Background(), "m", []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "q"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("stream cut off before completion: %v", err)
	}
	if !strings.Contains(string(raw), "[DONE]") {
		t.Errorf("stream truncated: %q", raw)
	}
	if client.StreamClient.Timeout != 0 {
		t.Errorf("stream client has overall timeout %v", client.StreamClient.Timeout)
	}
}

func TestStreamCompletionUpstreamFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.StreamCompletion(context.Background(), "m", []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "q"},
	})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
