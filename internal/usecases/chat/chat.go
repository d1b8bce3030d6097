package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"
)

// historyTurns bounds how many prior messages are replayed to the model.
const historyTurns = 10

// sessionTitleLen bounds auto-generated session titles.
const sessionTitleLen = 60

// TurnRequest starts one chat exchange. SessionID is nil on the first
// message of a conversation; the session is created lazily.
type TurnRequest struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	SessionID *uuid.UUID
	Query     string
	Model     string
}

func (r *TurnRequest) validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: %s", domain.ErrValidation, "query must not be empty")
	}
	return nil
}

// Turn holds everything the transport needs to relay one answer: the
// session it belongs to, the provider stream and the retrieved sources.
// The caller must close Stream and call PersistTurn once the answer is
// fully accumulated.
type Turn struct {
	Session *domain.ChatSession
	Stream  io.ReadCloser
	Results []*domain.SearchResult
	Model   string
}

// StartTurn resolves the session, retrieves report context and opens the
// completion stream. Nothing is persisted here; the user/assistant pair
// is written by PersistTurn after the stream has been consumed.
func (s *Service) StartTurn(ctx context.Context, req TurnRequest) (*Turn, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = domain.DefaultChatModel
	}

	profile, err := s.ProfileRepo.GetByID(ctx, req.UserID, req.ProfileID)
	if err != nil {
		return nil, err
	}
	chart, err := profile.Chart()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, "profile has no calculated chart")
	}

	session, err := s.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}

	history, err := s.ChatRepo.ListMessages(ctx, session.ID, historyTurns)
	if err != nil {
		return nil, err
	}

	results, err := s.RAG.Search(ctx, req.ProfileID, req.Query, rag.DefaultSearchLimit)
	if err != nil {
		// Retrieval failure degrades the answer but must not block it.
		s.Log.Error("chunk retrieval failed, answering without report context",
			"error", err,
			"session_id", session.ID,
		)
		results = nil
	}

	messages := make([]domain.ConversationTurn, 0, len(history)+2)
	messages = append(messages, domain.ConversationTurn{
		Role:    domain.RoleSystem,
		Content: rag.BuildSystemPrompt(chart, results, req.Query),
	})
	for _, msg := range history {
		messages = append(messages, domain.ConversationTurn{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, domain.ConversationTurn{Role: domain.RoleUser, Content: req.Query})

	stream, err := s.Completer.StreamCompletion(ctx, req.Model, messages)
	if err != nil {
		return nil, err
	}

	s.Log.Info("chat turn started",
		"session_id", session.ID,
		"profile_id", req.ProfileID,
		"history", len(history),
		"sources", len(results),
	)
	return &Turn{Session: session, Stream: stream, Results: results, Model: req.Model}, nil
}

// resolveSession loads and ownership-checks an existing session, or
// creates one titled after the first query.
func (s *Service) resolveSession(ctx context.Context, req TurnRequest) (*domain.ChatSession, error) {
	if req.SessionID != nil {
		session, err := s.ChatRepo.GetSession(ctx, *req.SessionID)
		if err != nil {
			return nil, err
		}
		if session.ProfileID != req.ProfileID {
			return nil, fmt.Errorf("session %s: %w", session.ID, domain.ErrForbidden)
		}
		return session, nil
	}

	title := sessionTitle(req.Query)
	now := time.Now()
	session := &domain.ChatSession{
		ID:        uuid.New(),
		ProfileID: req.ProfileID,
		Title:     &title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ChatRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func sessionTitle(query string) string {
	title := strings.TrimSpace(query)
	if len(title) <= sessionTitleLen {
		return title
	}
	// Back off to a rune boundary so Hindi titles are not cut mid-character.
	cut := sessionTitleLen
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut] + "..."
}

// PersistTurn appends the user query and the accumulated assistant
// answer as one atomic pair, with citations attached to the answer.
func (s *Service) PersistTurn(ctx context.Context, turn *Turn, query, answer string) error {
	now := time.Now()
	model := turn.Model
	messages := []*domain.ChatMessage{
		{
			ID:        uuid.New(),
			SessionID: turn.Session.ID,
			Role:      domain.RoleUser,
			Content:   query,
			CreatedAt: now,
		},
		{
			ID:        uuid.New(),
			SessionID: turn.Session.ID,
			Role:      domain.RoleAssistant,
			Content:   answer,
			Sources:   rag.BuildSources(turn.Results),
			ModelUsed: &model,
			CreatedAt: now,
		},
	}
	if err := s.ChatRepo.AppendMessages(ctx, messages); err != nil {
		return fmt.Errorf("failed to persist chat turn: %w", err)
	}
	return nil
}

// ListSessions returns a profile's sessions, most recently active first.
func (s *Service) ListSessions(ctx context.Context, userID, profileID uuid.UUID) ([]*domain.ChatSession, error) {
	if _, err := s.ProfileRepo.GetByID(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return s.ChatRepo.ListSessionsByProfile(ctx, profileID)
}

// History returns a session's messages in chronological order.
func (s *Service) History(ctx context.Context, userID, profileID, sessionID uuid.UUID) ([]*domain.ChatMessage, error) {
	if _, err := s.ProfileRepo.GetByID(ctx, userID, profileID); err != nil {
		return nil, err
	}
	session, err := s.ChatRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ProfileID != profileID {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrForbidden)
	}
	return s.ChatRepo.ListMessages(ctx, sessionID, 0)
}
