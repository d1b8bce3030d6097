package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatSession belongs to one profile; created lazily on first message.
type ChatSession struct {
	ID        uuid.UUID `db:"id"`
	ProfileID uuid.UUID `db:"profile_id"`
	Title     *string   `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ChatMessage is one turn in a session. Messages are append-only and
// ordered by creation timestamp.
type ChatMessage struct {
	ID        uuid.UUID    `db:"id"`
	SessionID uuid.UUID    `db:"session_id"`
	Role      string       `db:"role"`
	Content   string       `db:"content"`
	Sources   []ChatSource `db:"-"`
	ModelUsed *string      `db:"model_used"`
	CreatedAt time.Time    `db:"created_at"`
}

// ChatSource is a citation pointing back into a report chunk.
type ChatSource struct {
	ReportID   uuid.UUID `json:"report_id"`
	ChunkID    uuid.UUID `json:"chunk_id"`
	ReportType string    `json:"report_type,omitempty"`
	Excerpt    string    `json:"excerpt"`
	Similarity float64   `json:"similarity"`
}

// ConversationTurn is the minimal role/content pair sent to the
// completion provider.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
