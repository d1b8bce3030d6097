package service

import (
	"context"
	"io"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IEmbedder converts text into fixed-length vectors.
type IEmbedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch sends all texts in one request and fails atomically:
	// it never returns a partial or misaligned vector list.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// IChatCompleter streams chat completions from the provider.
// The returned body carries provider-native SSE framing
// (data: {choices:[{delta:{content}}]} ... data: [DONE]) and must be
// closed by the caller.
type IChatCompleter interface {
	StreamCompletion(ctx context.Context, model string, messages []domain.ConversationTurn) (io.ReadCloser, error)
}
