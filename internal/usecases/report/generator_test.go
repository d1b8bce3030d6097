package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"
)

type memReportRepo struct {
	reports map[uuid.UUID]*domain.Report
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: make(map[uuid.UUID]*domain.Report)}
}

func (m *memReportRepo) Create(ctx context.Context, r *domain.Report) error {
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *memReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReportRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Report, error) {
	var out []*domain.Report
	for _, r := range m.reports {
		if r.ProfileID == profileID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memReportRepo) Complete(ctx context.Context, id uuid.UUID, content string) error {
	r, ok := m.reports[id]
	if !ok || r.GenerationStatus != domain.GenerationStatusGenerating {
		return domain.ErrNotFound
	}
	r.Content = &content
	r.GenerationStatus = domain.GenerationStatusComplete
	return nil
}

func (m *memReportRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	r, ok := m.reports[id]
	if !ok || r.GenerationStatus != domain.GenerationStatusGenerating {
		return domain.ErrNotFound
	}
	r.GenerationStatus = domain.GenerationStatusFailed
	return nil
}

func (m *memReportRepo) SetPDF(ctx context.Context, id uuid.UUID, objectKey string, generatedAt time.Time) error {
	return nil
}

type memProfileRepo struct {
	profile *domain.Profile
}

func (m *memProfileRepo) Create(ctx context.Context, p *domain.Profile) error { return nil }
func (m *memProfileRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	if m.profile == nil || m.profile.ID != id || m.profile.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return m.profile, nil
}
func (m *memProfileRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	return nil, nil
}
func (m *memProfileRepo) Update(ctx context.Context, p *domain.Profile) error    { return nil }
func (m *memProfileRepo) Delete(ctx context.Context, userID, id uuid.UUID) error { return nil }
func (m *memProfileRepo) UpdateChartData(ctx context.Context, userID, id uuid.UUID, chart json.RawMessage, calculatedAt time.Time) error {
	return nil
}
func (m *memProfileRepo) GetForWorker(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return m.profile, nil
}
func (m *memProfileRepo) ListActiveWithChart(ctx context.Context) ([]*domain.Profile, error) {
	return nil, nil
}

type memChunkRepo struct {
	inserted []*domain.Chunk
	deleted  []uuid.UUID
}

func (m *memChunkRepo) InsertChunks(ctx context.Context, chunks []*domain.Chunk) error {
	m.inserted = append(m.inserted, chunks...)
	return nil
}
func (m *memChunkRepo) Search(ctx context.Context, profileID uuid.UUID, queryEmbedding []float64, queryText string, limit int) ([]*domain.SearchResult, error) {
	return nil, nil
}
func (m *memChunkRepo) DeleteByReport(ctx context.Context, reportID uuid.UUID) error {
	m.deleted = append(m.deleted, reportID)
	return nil
}

type memEmbedder struct{}

func (memEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{0.1, 0.2}, nil
}
func (memEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.1, 0.2}
	}
	return out, nil
}

type memCompleter struct {
	stream string
	err    error
}

func (m *memCompleter) StreamCompletion(ctx context.Context, model string, messages []domain.ConversationTurn) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(strings.NewReader(m.stream)), nil
}

type memJobQueue struct {
	pdfEnqueued []uuid.UUID
}

func (m *memJobQueue) EnqueuePDFGeneration(ctx context.Context, reportID uuid.UUID) error {
	m.pdfEnqueued = append(m.pdfEnqueued, reportID)
	return nil
}
func (m *memJobQueue) EnqueueAlertScan(ctx context.Context, profileID uuid.UUID) error { return nil }

const generatorChartJSON = `{
	"lagna": {"sign": "Leo", "sign_num": 5, "degrees": 15.5, "lord": "Sun"},
	"planets": {"Sun": {"sign": "Aries", "degrees": 10.0, "house": 9}},
	"houses": {},
	"dashas": {"current": {"mahadasha": "Saturn", "antardasha": "Venus"}}
}`

type generatorFixture struct {
	svc       *Service
	reports   *memReportRepo
	chunks    *memChunkRepo
	queue     *memJobQueue
	completer *memCompleter
	userID    uuid.UUID
	profileID uuid.UUID
}

func newGeneratorFixture(completer *memCompleter) *generatorFixture {
	userID := uuid.New()
	profileID := uuid.New()
	calculatedAt := time.Now()

	profiles := &memProfileRepo{profile: &domain.Profile{
		ID:                profileID,
		UserID:            userID,
		Name:              "Test",
		ChartData:         json.RawMessage(generatorChartJSON),
		ChartCalculatedAt: &calculatedAt,
	}}
	reports := newMemReportRepo()
	chunks := &memChunkRepo{}
	jobQueue := &memJobQueue{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ragService := rag.New(chunks, memEmbedder{}, log)

	return &generatorFixture{
		svc:       New(reports, profiles, completer, ragService, jobQueue, log),
		reports:   reports,
		chunks:    chunks,
		queue:     jobQueue,
		completer: completer,
		userID:    userID,
		profileID: profileID,
	}
}

func TestStartCreatesReportInGenerating(t *testing.T) {
	f := newGeneratorFixture(&memCompleter{stream: "data: [DONE]\n\n"})

	report, stream, err := f.svc.Start(context.Background(), GenerateRequest{
		UserID:     f.userID,
		ProfileID:  f.profileID,
		ReportType: domain.ReportCareer,
		Language:   domain.LanguageEnglish,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	stored, err := f.reports.GetByID(context.Background(), report.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.GenerationStatus != domain.GenerationStatusGenerating {
		t.Errorf("status = %q, want generating", stored.GenerationStatus)
	}
	if stored.ModelUsed == nil || *stored.ModelUsed != domain.DefaultChatModel {
		t.Errorf("default model not applied: %v", stored.ModelUsed)
	}
}

func TestFinalizeCompletesIndexesAndEnqueuesPDF(t *testing.T) {
	f := newGeneratorFixture(&memCompleter{stream: "data: [DONE]\n\n"})

	report, stream, err := f.svc.Start(context.Background(), GenerateRequest{
		UserID:     f.userID,
		ProfileID:  f.profileID,
		ReportType: domain.ReportCareer,
		Language:   domain.LanguageEnglish,
	})
	if err != nil {
		t.Fatal(err)
	}
	stream.Close()

	content := "# Career Overview\n\nSaturn in the tenth house rewards patience."
	if err := f.svc.Finalize(context.Background(), report, content); err != nil {
		t.Fatal(err)
	}

	stored, err := f.reports.GetByID(context.Background(), report.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.GenerationStatus != domain.GenerationStatusComplete {
		t.Errorf("status = %q, want complete", stored.GenerationStatus)
	}
	if stored.Content == nil || *stored.Content != content {
		t.Error("content not persisted")
	}
	if len(f.chunks.inserted) == 0 {
		t.Error("report not indexed for retrieval")
	}
	if len(f.queue.pdfEnqueued) != 1 || f.queue.pdfEnqueued[0] != report.ID {
		t.Errorf("pdf job not enqueued: %v", f.queue.pdfEnqueued)
	}
}

func TestStartMarksFailedWhenStreamNeverOpens(t *testing.T) {
	f := newGeneratorFixture(&memCompleter{err: &domain.UpstreamError{
		Service: "openrouter", Endpoint: "/chat/completions", Status: 502,
	}})

	_, _, err := f.svc.Start(context.Background(), GenerateRequest{
		UserID:     f.userID,
		ProfileID:  f.profileID,
		ReportType: domain.ReportCareer,
		Language:   domain.LanguageEnglish,
	})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	if len(f.reports.reports) != 1 {
		t.Fatalf("reports stored = %d, want 1", len(f.reports.reports))
	}
	for _, stored := range f.reports.reports {
		if stored.GenerationStatus != domain.GenerationStatusFailed {
			t.Errorf("status = %q, want failed", stored.GenerationStatus)
		}
	}
}

func TestFailLeavesCompleteReportAlone(t *testing.T) {
	f := newGeneratorFixture(&memCompleter{stream: "data: [DONE]\n\n"})

	report, stream, err := f.svc.Start(context.Background(), GenerateRequest{
		UserID:     f.userID,
		ProfileID:  f.profileID,
		ReportType: domain.ReportWealth,
		Language:   domain.LanguageEnglish,
	})
	if err != nil {
		t.Fatal(err)
	}
	stream.Close()
	if err := f.svc.Finalize(context.Background(), report, "Jupiter favors growth."); err != nil {
		t.Fatal(err)
	}

	// Complete is terminal; a late failure signal must not clobber it.
	f.svc.Fail(context.Background(), report.ID)

	stored, err := f.reports.GetByID(context.Background(), report.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.GenerationStatus != domain.GenerationStatusComplete {
		t.Errorf("status = %q, want complete", stored.GenerationStatus)
	}
}
