package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IndexReport chunks a completed report, embeds all chunks in one batch
// and stores them. Re-indexing drops the previous chunks first so the
// operation is idempotent.
func (s *Service) IndexReport(ctx context.Context, report *domain.Report) error {
	if report.Content == nil || *report.Content == "" {
		return fmt.Errorf("report %s has no content to index: %w", report.ID, domain.ErrValidation)
	}

	textChunks := ChunkText(*report.Content, string(report.ReportType))
	if len(textChunks) == 0 {
		s.Log.Warn("report produced no chunks", "report_id", report.ID)
		return nil
	}

	texts := make([]string, len(textChunks))
	for i, chunk := range textChunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed report chunks: %w", err)
	}

	now := time.Now()
	chunks := make([]*domain.Chunk, len(textChunks))
	for i, chunk := range textChunks {
		chunks[i] = &domain.Chunk{
			ID:         uuid.New(),
			ReportID:   report.ID,
			ProfileID:  report.ProfileID,
			ChunkIndex: chunk.Index,
			Content:    chunk.Content,
			Embedding:  embeddings[i],
			Metadata: domain.ChunkMetadata{
				ReportType:   chunk.ReportType,
				SectionTitle: chunk.SectionTitle,
			},
			CreatedAt: now,
		}
	}

	if err := s.ChunkRepo.DeleteByReport(ctx, report.ID); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}
	if err := s.ChunkRepo.InsertChunks(ctx, chunks); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	s.Log.Info("report indexed",
		"report_id", report.ID,
		"profile_id", report.ProfileID,
		"chunks", len(chunks),
	)
	return nil
}
