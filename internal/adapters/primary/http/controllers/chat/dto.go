package chatController

import (
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// MessageRequest is one user turn. SessionID is omitted on the first
// message; the response's done frame carries the created session id.
type MessageRequest struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Query     string     `json:"query"`
	Model     string     `json:"model,omitempty"`
}

type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSessionResponse(s *domain.ChatSession) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type MessageResponse struct {
	ID        uuid.UUID           `json:"id"`
	Role      string              `json:"role"`
	Content   string              `json:"content"`
	Sources   []domain.ChatSource `json:"sources,omitempty"`
	ModelUsed *string             `json:"model_used,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func toMessageResponse(m *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		Sources:   m.Sources,
		ModelUsed: m.ModelUsed,
		CreatedAt: m.CreatedAt,
	}
}
