package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IChunkRepo stores report chunks with embeddings and runs the hybrid
// vector + full-text search, always restricted to one profile.
type IChunkRepo interface {
	// InsertChunks inserts all chunks for a report in one transaction;
	// either all rows land or none.
	InsertChunks(ctx context.Context, chunks []*domain.Chunk) error
	Search(ctx context.Context, profileID uuid.UUID, queryEmbedding []float64, queryText string, limit int) ([]*domain.SearchResult, error)
	DeleteByReport(ctx context.Context, reportID uuid.UUID) error
}
