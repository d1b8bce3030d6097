package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IChatRepo persists chat sessions and their append-only messages.
type IChatRepo interface {
	CreateSession(ctx context.Context, session *domain.ChatSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error)
	ListSessionsByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.ChatSession, error)
	// AppendMessages writes a user/assistant pair atomically.
	AppendMessages(ctx context.Context, messages []*domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}
