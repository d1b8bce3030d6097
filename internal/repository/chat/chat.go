package chatRepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/persistence"
	ports "github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

type sessionColumns struct {
	TableName string
	ID        string
	ProfileID string
	Title     string
	CreatedAt string
	UpdatedAt string
}

type messageColumns struct {
	TableName string
	ID        string
	SessionID string
	Role      string
	Content   string
	Sources   string
	ModelUsed string
	CreatedAt string
}

type Repository struct {
	db       persistence.Persistence
	Log      *slog.Logger
	sessions sessionColumns
	messages messageColumns
}

// New creates the chat repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IChatRepo {
	return &Repository{
		db:  db,
		Log: log,
		sessions: sessionColumns{
			TableName: "chat_sessions",
			ID:        "id",
			ProfileID: "profile_id",
			Title:     "title",
			CreatedAt: "created_at",
			UpdatedAt: "updated_at",
		},
		messages: messageColumns{
			TableName: "chat_messages",
			ID:        "id",
			SessionID: "session_id",
			Role:      "role",
			Content:   "content",
			Sources:   "sources",
			ModelUsed: "model_used",
			CreatedAt: "created_at",
		},
	}
}

func (r *Repository) sessionAllColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		r.sessions.ID,
		r.sessions.ProfileID,
		r.sessions.Title,
		r.sessions.CreatedAt,
		r.sessions.UpdatedAt)
}

func (r *Repository) messageAllColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		r.messages.ID,
		r.messages.SessionID,
		r.messages.Role,
		r.messages.Content,
		r.messages.Sources,
		r.messages.ModelUsed,
		r.messages.CreatedAt)
}

// CreateSession inserts a new chat session.
func (r *Repository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		r.sessions.TableName,
		r.sessionAllColumns())
	err := r.db.Exec(ctx, query,
		session.ID,
		session.ProfileID,
		session.Title,
		session.CreatedAt,
		session.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create chat session",
			"error", err,
			"profile_id", session.ProfileID)
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	r.Log.Debug("chat session created",
		"session_id", session.ID,
		"profile_id", session.ProfileID)
	return nil
}

// GetSession loads a chat session by ID.
func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	var session domain.ChatSession
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.sessionAllColumns(),
		r.sessions.TableName,
		r.sessions.ID)
	err := r.db.Get(ctx, &session, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("chat session not found", "session_id", id)
			return nil, fmt.Errorf("chat session %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get chat session",
			"error", err,
			"session_id", id)
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return &session, nil
}

// ListSessionsByProfile returns a profile's sessions, most recent first.
func (r *Repository) ListSessionsByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.ChatSession, error) {
	var sessions []*domain.ChatSession
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		r.sessionAllColumns(),
		r.sessions.TableName,
		r.sessions.ProfileID,
		r.sessions.UpdatedAt)
	err := r.db.Select(ctx, &sessions, query, profileID)
	if err != nil {
		r.Log.Error("failed to list chat sessions",
			"error", err,
			"profile_id", profileID)
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	r.Log.Debug("chat sessions retrieved",
		"profile_id", profileID,
		"count", len(sessions))
	return sessions, nil
}

// AppendMessages writes the turn's messages atomically and bumps the
// session's updated_at so session lists sort by recency.
func (r *Repository) AppendMessages(ctx context.Context, messages []*domain.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.messages.TableName,
		r.messageAllColumns())
	touchQuery := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		r.sessions.TableName,
		r.sessions.UpdatedAt,
		r.sessions.ID)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		for _, msg := range messages {
			var sources []byte
			if len(msg.Sources) > 0 {
				var err error
				sources, err = json.Marshal(msg.Sources)
				if err != nil {
					return fmt.Errorf("failed to marshal message sources: %w", err)
				}
			}
			if err := tx.Exec(ctx, insertQuery,
				msg.ID,
				msg.SessionID,
				msg.Role,
				msg.Content,
				sources,
				msg.ModelUsed,
				msg.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert chat message: %w", err)
			}
		}
		return tx.Exec(ctx, touchQuery, messages[0].SessionID, time.Now())
	})
	if err != nil {
		r.Log.Error("failed to append chat messages",
			"error", err,
			"session_id", messages[0].SessionID,
			"count", len(messages))
		return fmt.Errorf("failed to append chat messages: %w", err)
	}

	r.Log.Debug("chat messages appended",
		"session_id", messages[0].SessionID,
		"count", len(messages))
	return nil
}

// messageRow carries the raw sources JSONB alongside the message.
type messageRow struct {
	ID        uuid.UUID       `db:"id"`
	SessionID uuid.UUID       `db:"session_id"`
	Role      string          `db:"role"`
	Content   string          `db:"content"`
	Sources   json.RawMessage `db:"sources"`
	ModelUsed *string         `db:"model_used"`
	CreatedAt time.Time       `db:"created_at"`
}

// ListMessages returns the last limit messages in chronological order.
// A non-positive limit returns the whole history.
func (r *Repository) ListMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	var rows []messageRow
	var err error
	if limit > 0 {
		query := fmt.Sprintf(`SELECT * FROM (
				SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2
			) recent ORDER BY %s ASC`,
			r.messageAllColumns(),
			r.messages.TableName,
			r.messages.SessionID,
			r.messages.CreatedAt,
			r.messages.CreatedAt)
		err = r.db.Select(ctx, &rows, query, sessionID, limit)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
			r.messageAllColumns(),
			r.messages.TableName,
			r.messages.SessionID,
			r.messages.CreatedAt)
		err = r.db.Select(ctx, &rows, query, sessionID)
	}
	if err != nil {
		r.Log.Error("failed to list chat messages",
			"error", err,
			"session_id", sessionID)
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	messages := make([]*domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		msg := &domain.ChatMessage{
			ID:        row.ID,
			SessionID: row.SessionID,
			Role:      row.Role,
			Content:   row.Content,
			ModelUsed: row.ModelUsed,
			CreatedAt: row.CreatedAt,
		}
		if len(row.Sources) > 0 {
			if err := json.Unmarshal(row.Sources, &msg.Sources); err != nil {
				r.Log.Warn("failed to decode message sources",
					"error", err,
					"message_id", row.ID)
			}
		}
		messages = append(messages, msg)
	}

	return messages, nil
}
