package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChunkMetadata is the free-form metadata stored alongside a chunk.
type ChunkMetadata struct {
	ReportType   string `json:"report_type,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
}

// Chunk is an immutable slice of a completed report's content plus its
// embedding vector. ProfileID is denormalized from the report so that
// retrieval can filter by ownership without a join.
type Chunk struct {
	ID         uuid.UUID     `db:"id"`
	ReportID   uuid.UUID     `db:"report_id"`
	ProfileID  uuid.UUID     `db:"profile_id"`
	ChunkIndex int           `db:"chunk_index"`
	Content    string        `db:"content"`
	Embedding  []float64     `db:"-"`
	Metadata   ChunkMetadata `db:"-"`
	CreatedAt  time.Time     `db:"created_at"`
}

// SearchResult is one ranked hit from the hybrid chunk search.
type SearchResult struct {
	ID            uuid.UUID     `db:"id"`
	ReportID      uuid.UUID     `db:"report_id"`
	Content       string        `db:"content"`
	Metadata      ChunkMetadata `db:"-"`
	Similarity    float64       `db:"similarity"`
	TextRank      float64       `db:"ts_rank"`
	CombinedScore float64       `db:"combined_score"`
}
