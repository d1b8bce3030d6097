package rag

import (
	"log/slog"

	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

// Service covers the retrieval pipeline: chunking completed reports,
// embedding, hybrid search and prompt assembly.
type Service struct {
	ChunkRepo repository.IChunkRepo
	Embedder  service.IEmbedder
	Log       *slog.Logger
}

// New creates the retrieval service.
func New(
	chunkRepo repository.IChunkRepo,
	embedder service.IEmbedder,
	log *slog.Logger,
) *Service {
	return &Service{
		ChunkRepo: chunkRepo,
		Embedder:  embedder,
		Log:       log,
	}
}
