package rag

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// DefaultSearchLimit is the number of chunks fed into the chat prompt.
const DefaultSearchLimit = 5

// Search embeds the query and runs the hybrid chunk search scoped to
// one profile.
func (s *Service) Search(ctx context.Context, profileID uuid.UUID, query string, limit int) ([]*domain.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	queryEmbedding, err := s.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.ChunkRepo.Search(ctx, profileID, queryEmbedding, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	s.Log.Debug("chunk retrieval complete",
		"profile_id", profileID,
		"results", len(results),
	)
	return results, nil
}

// excerptLen bounds the source citation preview.
const excerptLen = 150

// BuildSources converts search results into citation metadata stored on
// the assistant message.
func BuildSources(results []*domain.SearchResult) []domain.ChatSource {
	sources := make([]domain.ChatSource, 0, len(results))
	for _, result := range results {
		excerpt := result.Content
		if len(excerpt) > excerptLen {
			cut := excerptLen
			for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
				cut--
			}
			excerpt = excerpt[:cut] + "..."
		}
		sources = append(sources, domain.ChatSource{
			ReportID:   result.ReportID,
			ChunkID:    result.ID,
			ReportType: result.Metadata.ReportType,
			Excerpt:    excerpt,
			Similarity: result.Similarity,
		})
	}
	return sources
}
