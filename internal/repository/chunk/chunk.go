package chunkRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/persistence"
	ports "github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

type chunkColumns struct {
	TableName  string
	ID         string
	ReportID   string
	ProfileID  string
	ChunkIndex string
	Content    string
	Embedding  string
	Metadata   string
	CreatedAt  string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns chunkColumns
}

// New creates the chunk repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IChunkRepo {
	cols := chunkColumns{
		TableName:  "report_chunks",
		ID:         "id",
		ReportID:   "report_id",
		ProfileID:  "profile_id",
		ChunkIndex: "chunk_index",
		Content:    "content",
		Embedding:  "embedding",
		Metadata:   "metadata",
		CreatedAt:  "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// vectorLiteral renders an embedding as the pgvector text format
// '[0.1,0.2,...]', passed as a bind parameter and cast in SQL.
func vectorLiteral(embedding []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

// InsertChunks inserts all chunks of one report atomically.
func (r *Repository) InsertChunks(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6::vector, $7, $8)`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.ReportID,
		r.columns.ProfileID,
		r.columns.ChunkIndex,
		r.columns.Content,
		r.columns.Embedding,
		r.columns.Metadata,
		r.columns.CreatedAt)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		for _, chunk := range chunks {
			metadata, err := json.Marshal(chunk.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal chunk metadata: %w", err)
			}
			if err := tx.Exec(ctx, query,
				chunk.ID,
				chunk.ReportID,
				chunk.ProfileID,
				chunk.ChunkIndex,
				chunk.Content,
				vectorLiteral(chunk.Embedding),
				metadata,
				chunk.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
			}
		}
		return nil
	})
	if err != nil {
		r.Log.Error("failed to insert chunks",
			"error", err,
			"report_id", chunks[0].ReportID,
			"count", len(chunks))
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	r.Log.Debug("chunks inserted successfully",
		"report_id", chunks[0].ReportID,
		"count", len(chunks))
	return nil
}

// searchRow mirrors the return shape of the search_report_chunks SQL
// function; metadata arrives as raw JSONB.
type searchRow struct {
	ID            uuid.UUID       `db:"id"`
	ReportID      uuid.UUID       `db:"report_id"`
	Content       string          `db:"content"`
	Metadata      json.RawMessage `db:"metadata"`
	Similarity    float64         `db:"similarity"`
	TextRank      float64         `db:"ts_rank"`
	CombinedScore float64         `db:"combined_score"`
}

// Search runs the hybrid vector + full-text search for one profile.
func (r *Repository) Search(ctx context.Context, profileID uuid.UUID, queryEmbedding []float64, queryText string, limit int) ([]*domain.SearchResult, error) {
	var rows []searchRow
	query := `SELECT id, report_id, content, metadata, similarity, ts_rank, combined_score
		FROM search_report_chunks($1, $2::vector, $3, $4)`
	err := r.db.Select(ctx, &rows, query, profileID, vectorLiteral(queryEmbedding), queryText, limit)
	if err != nil {
		r.Log.Error("failed to search chunks",
			"error", err,
			"profile_id", profileID)
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	results := make([]*domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		result := &domain.SearchResult{
			ID:            row.ID,
			ReportID:      row.ReportID,
			Content:       row.Content,
			Similarity:    row.Similarity,
			TextRank:      row.TextRank,
			CombinedScore: row.CombinedScore,
		}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &result.Metadata); err != nil {
				r.Log.Warn("failed to decode chunk metadata",
					"error", err,
					"chunk_id", row.ID)
			}
		}
		results = append(results, result)
	}

	r.Log.Debug("chunk search complete",
		"profile_id", profileID,
		"results", len(results))
	return results, nil
}

// DeleteByReport removes all chunks of one report, used before
// re-indexing a regenerated report.
func (r *Repository) DeleteByReport(ctx context.Context, reportID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		r.columns.TableName,
		r.columns.ReportID)
	if err := r.db.Exec(ctx, query, reportID); err != nil {
		r.Log.Error("failed to delete chunks",
			"error", err,
			"report_id", reportID)
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	r.Log.Debug("chunks deleted", "report_id", reportID)
	return nil
}
