package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"
)

type fakeChatRepo struct {
	sessions map[uuid.UUID]*domain.ChatSession
	messages map[uuid.UUID][]*domain.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		sessions: make(map[uuid.UUID]*domain.ChatSession),
		messages: make(map[uuid.UUID][]*domain.ChatMessage),
	}
}

func (f *fakeChatRepo) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeChatRepo) GetSession(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeChatRepo) ListSessionsByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.ChatSession, error) {
	var out []*domain.ChatSession
	for _, s := range f.sessions {
		if s.ProfileID == profileID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) AppendMessages(ctx context.Context, messages []*domain.ChatMessage) error {
	for _, msg := range messages {
		f.messages[msg.SessionID] = append(f.messages[msg.SessionID], msg)
	}
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	msgs := f.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error { return nil }

func (f *fakeProfileRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	return nil, nil
}
func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfileRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}
func (f *fakeProfileRepo) UpdateChartData(ctx context.Context, userID, id uuid.UUID, chart json.RawMessage, calculatedAt time.Time) error {
	return nil
}
func (f *fakeProfileRepo) GetForWorker(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeProfileRepo) ListActiveWithChart(ctx context.Context) ([]*domain.Profile, error) {
	return nil, nil
}

type fakeChunkRepo struct {
	results []*domain.SearchResult
	err     error
}

func (f *fakeChunkRepo) InsertChunks(ctx context.Context, chunks []*domain.Chunk) error { return nil }
func (f *fakeChunkRepo) Search(ctx context.Context, profileID uuid.UUID, queryEmbedding []float64, queryText string, limit int) ([]*domain.SearchResult, error) {
	return f.results, f.err
}
func (f *fakeChunkRepo) DeleteByReport(ctx context.Context, reportID uuid.UUID) error { return nil }

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{0.1, 0.2}, nil
}
func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.1, 0.2}
	}
	return out, nil
}

type fakeCompleter struct {
	lastModel    string
	lastMessages []domain.ConversationTurn
}

func (f *fakeCompleter) StreamCompletion(ctx context.Context, model string, messages []domain.ConversationTurn) (io.ReadCloser, error) {
	f.lastModel = model
	f.lastMessages = messages
	return io.NopCloser(strings.NewReader("data: [DONE]\n\n")), nil
}

const chartJSON = `{
	"lagna": {"sign": "Leo", "degrees": 15.5},
	"planets": {
		"Sun": {"sign": "Aries", "house": 9, "degrees": 10.0, "nakshatra": "Ashwini"},
		"Moon": {"sign": "Taurus", "house": 10, "degrees": 3.2, "nakshatra": "Krittika"}
	},
	"houses": {},
	"dashas": {"current": {"mahadasha": "Saturn", "antardasha": "Mercury"}}
}`

func setup(t *testing.T) (*Service, *fakeChatRepo, *fakeCompleter, uuid.UUID, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	profileID := uuid.New()
	profiles := &fakeProfileRepo{profiles: map[uuid.UUID]*domain.Profile{
		profileID: {
			ID:        profileID,
			UserID:    userID,
			Name:      "Test",
			ChartData: json.RawMessage(chartJSON),
		},
	}}
	chatRepo := newFakeChatRepo()
	completer := &fakeCompleter{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ragService := rag.New(&fakeChunkRepo{}, &fakeEmbedder{}, log)
	svc := New(chatRepo, profiles, ragService, completer, log)
	return svc, chatRepo, completer, userID, profileID
}

func TestStartTurnCreatesSessionLazily(t *testing.T) {
	svc, chatRepo, completer, userID, profileID := setup(t)

	turn, err := svc.StartTurn(context.Background(), TurnRequest{
		UserID:    userID,
		ProfileID: profileID,
		Query:     "What does my career look like?",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer turn.Stream.Close()

	if turn.Session == nil || turn.Session.ID == uuid.Nil {
		t.Fatal("no session created")
	}
	if _, ok := chatRepo.sessions[turn.Session.ID]; !ok {
		t.Error("session not persisted")
	}
	if turn.Session.Title == nil || *turn.Session.Title != "What does my career look like?" {
		t.Errorf("unexpected session title: %v", turn.Session.Title)
	}

	first := completer.lastMessages[0]
	if first.Role != domain.RoleSystem {
		t.Errorf("first message role = %q, want system", first.Role)
	}
	if !strings.Contains(first.Content, "Lagna: Leo") {
		t.Error("system prompt missing chart summary")
	}
	last := completer.lastMessages[len(completer.lastMessages)-1]
	if last.Role != domain.RoleUser || last.Content != "What does my career look like?" {
		t.Errorf("unexpected final message: %+v", last)
	}
	if completer.lastModel != domain.DefaultChatModel {
		t.Errorf("model = %q, want default", completer.lastModel)
	}
}

func TestSessionTitleDevanagariRuneSafe(t *testing.T) {
	title := sessionTitle(strings.TrimSpace(strings.Repeat("करियर में सफलता ", 10)))

	if !utf8.ValidString(title) {
		t.Errorf("title cut mid-rune: %q", title)
	}
	if !strings.HasSuffix(title, "...") {
		t.Errorf("long title not truncated: %q", title)
	}
	if len(title) > sessionTitleLen+len("...") {
		t.Errorf("title too long: %d bytes", len(title))
	}
}

func TestStartTurnForeignSessionForbidden(t *testing.T) {
	svc, chatRepo, _, userID, profileID := setup(t)

	foreign := &domain.ChatSession{ID: uuid.New(), ProfileID: uuid.New()}
	chatRepo.sessions[foreign.ID] = foreign

	_, err := svc.StartTurn(context.Background(), TurnRequest{
		UserID:    userID,
		ProfileID: profileID,
		SessionID: &foreign.ID,
		Query:     "hello",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestStartTurnEmptyQueryRejected(t *testing.T) {
	svc, _, _, userID, profileID := setup(t)

	_, err := svc.StartTurn(context.Background(), TurnRequest{
		UserID:    userID,
		ProfileID: profileID,
		Query:     "   ",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStartTurnReplaysBoundedHistory(t *testing.T) {
	svc, chatRepo, completer, userID, profileID := setup(t)

	session := &domain.ChatSession{ID: uuid.New(), ProfileID: profileID}
	chatRepo.sessions[session.ID] = session
	for i := 0; i < 14; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		chatRepo.messages[session.ID] = append(chatRepo.messages[session.ID], &domain.ChatMessage{
			ID:        uuid.New(),
			SessionID: session.ID,
			Role:      role,
			Content:   "turn",
		})
	}

	turn, err := svc.StartTurn(context.Background(), TurnRequest{
		UserID:    userID,
		ProfileID: profileID,
		SessionID: &session.ID,
		Query:     "next question",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer turn.Stream.Close()

	// system prompt + 10 history turns + new user message
	if got := len(completer.lastMessages); got != 12 {
		t.Errorf("messages sent = %d, want 12", got)
	}
}

func TestPersistTurnWritesPairWithSources(t *testing.T) {
	svc, chatRepo, _, userID, profileID := setup(t)

	reportID := uuid.New()
	chunkID := uuid.New()
	svc.RAG.ChunkRepo = &fakeChunkRepo{results: []*domain.SearchResult{
		{ID: chunkID, ReportID: reportID, Content: "Career chunk", Similarity: 0.9},
	}}

	turn, err := svc.StartTurn(context.Background(), TurnRequest{
		UserID:    userID,
		ProfileID: profileID,
		Query:     "career?",
	})
	if err != nil {
		t.Fatal(err)
	}
	turn.Stream.Close()

	if err := svc.PersistTurn(context.Background(), turn, "career?", "Your career looks strong."); err != nil {
		t.Fatal(err)
	}

	msgs := chatRepo.messages[turn.Session.ID]
	if len(msgs) != 2 {
		t.Fatalf("messages persisted = %d, want 2", len(msgs))
	}
	if msgs[0].Role != domain.RoleUser || msgs[1].Role != domain.RoleAssistant {
		t.Errorf("unexpected roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
	if len(msgs[1].Sources) != 1 || msgs[1].Sources[0].ChunkID != chunkID {
		t.Errorf("assistant sources = %+v", msgs[1].Sources)
	}
	if msgs[1].ModelUsed == nil || *msgs[1].ModelUsed != domain.DefaultChatModel {
		t.Error("model not recorded on assistant message")
	}
}

func TestHistoryForeignSessionForbidden(t *testing.T) {
	svc, chatRepo, _, userID, profileID := setup(t)

	foreign := &domain.ChatSession{ID: uuid.New(), ProfileID: uuid.New()}
	chatRepo.sessions[foreign.ID] = foreign

	_, err := svc.History(context.Background(), userID, profileID, foreign.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
