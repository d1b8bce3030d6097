package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/cache"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
	calls    int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	f.calls++
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	f.calls++
	p, ok := f.profiles[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	f.calls++
	var out []*domain.Profile
	for _, p := range f.profiles {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	f.calls++
	stored, ok := f.profiles[p.ID]
	if !ok || stored.UserID != p.UserID {
		return domain.ErrNotFound
	}
	cp := *p
	cp.ChartData = stored.ChartData
	cp.ChartCalculatedAt = stored.ChartCalculatedAt
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.calls++
	p, ok := f.profiles[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeProfileRepo) UpdateChartData(ctx context.Context, userID, id uuid.UUID, chart json.RawMessage, calculatedAt time.Time) error {
	f.calls++
	p, ok := f.profiles[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	p.ChartData = chart
	if chart == nil {
		p.ChartCalculatedAt = nil
	} else {
		p.ChartCalculatedAt = &calculatedAt
	}
	return nil
}

func (f *fakeProfileRepo) GetForWorker(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListActiveWithChart(ctx context.Context) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, p := range f.profiles {
		if p.IsActive && p.HasChart() {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePrefsRepo struct {
	prefs map[uuid.UUID]*domain.UserPreferences
}

func (f *fakePrefsRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePrefsRepo) Upsert(ctx context.Context, prefs *domain.UserPreferences) error {
	if f.prefs == nil {
		f.prefs = make(map[uuid.UUID]*domain.UserPreferences)
	}
	f.prefs[prefs.UserID] = prefs
	return nil
}

type fakeEngine struct {
	lastInput service.BirthInput
	chart     json.RawMessage
	err       error

	transits     *domain.TransitData
	aspects      []domain.AspectData
	lastNatal    json.RawMessage
	transitCalls int
}

func (f *fakeEngine) CalculateChart(ctx context.Context, input service.BirthInput) (json.RawMessage, error) {
	f.lastInput = input
	return f.chart, f.err
}

func (f *fakeEngine) GetTransits(ctx context.Context) (*domain.TransitData, json.RawMessage, error) {
	f.transitCalls++
	if f.transits == nil {
		return nil, nil, errors.New("not implemented")
	}
	raw, err := json.Marshal(f.transits)
	if err != nil {
		return nil, nil, err
	}
	return f.transits, raw, nil
}

func (f *fakeEngine) GetTransitAspects(ctx context.Context, natal, transits json.RawMessage) ([]domain.AspectData, error) {
	f.lastNatal = natal
	return f.aspects, nil
}

func (f *fakeEngine) RenderPDF(ctx context.Context, req service.PDFRequest) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type fakeCache struct {
	store map[string]string
	sets  int
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.store == nil {
		f.store = make(map[string]string)
	}
	f.store[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	return nil
}

func (f *fakeCache) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validProfile(userID uuid.UUID) *domain.Profile {
	return &domain.Profile{
		UserID:     userID,
		Name:       "Test",
		BirthDate:  "1990-01-01",
		BirthTime:  "12:00",
		BirthPlace: "Raipur",
		Latitude:   21.1458,
		Longitude:  81.3824,
		Timezone:   "Asia/Kolkata",
	}
}

func TestCreateRejectsBadLatitudeBeforePersistence(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := New(repo, &fakePrefsRepo{}, &fakeEngine{}, nil, testLogger())

	p := validProfile(uuid.New())
	p.Latitude = 95

	_, err := svc.Create(context.Background(), p)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository touched before validation: %d calls", repo.calls)
	}
}

func TestCreateSetsDefaults(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := New(repo, &fakePrefsRepo{}, &fakeEngine{}, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(uuid.New()))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == uuid.Nil {
		t.Error("profile id not assigned")
	}
	if !created.IsActive {
		t.Error("new profile not active")
	}
	if created.HasChart() {
		t.Error("new profile has chart data")
	}
}

func TestUpdateRejectsBadLatitudeBeforePersistence(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	svc := New(repo, &fakePrefsRepo{}, &fakeEngine{}, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}
	callsAfterCreate := repo.calls

	edited := *created
	edited.Latitude = 95
	if _, err := svc.Update(context.Background(), &edited); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != callsAfterCreate {
		t.Error("repository touched for invalid update")
	}
}

func TestUpdateClearsStaleChart(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	engine := &fakeEngine{chart: json.RawMessage(`{"planets":{"Sun":{}}}`)}
	svc := New(repo, &fakePrefsRepo{}, engine, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CalculateChart(context.Background(), userID, created.ID); err != nil {
		t.Fatal(err)
	}

	edited := *created
	edited.BirthTime = "13:30"
	after, err := svc.Update(context.Background(), &edited)
	if err != nil {
		t.Fatal(err)
	}
	if after.HasChart() {
		t.Error("chart survived a birth data change")
	}
}

func TestUpdateKeepsChartWhenBirthDataUnchanged(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	engine := &fakeEngine{chart: json.RawMessage(`{"planets":{"Sun":{}}}`)}
	svc := New(repo, &fakePrefsRepo{}, engine, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CalculateChart(context.Background(), userID, created.ID); err != nil {
		t.Fatal(err)
	}

	edited := *created
	edited.Name = "Renamed"
	after, err := svc.Update(context.Background(), &edited)
	if err != nil {
		t.Fatal(err)
	}
	if !after.HasChart() {
		t.Error("chart cleared although birth data unchanged")
	}
	if after.Name != "Renamed" {
		t.Errorf("name not updated: %q", after.Name)
	}
}

func TestCalculateChartUsesPreferredAyanamsha(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	engine := &fakeEngine{chart: json.RawMessage(`{"planets":{"Sun":{}}}`)}
	prefs := &fakePrefsRepo{prefs: map[uuid.UUID]*domain.UserPreferences{
		userID: {UserID: userID, Ayanamsha: "raman"},
	}}
	svc := New(repo, prefs, engine, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CalculateChart(context.Background(), userID, created.ID); err != nil {
		t.Fatal(err)
	}

	if engine.lastInput.Ayanamsha != "raman" {
		t.Errorf("ayanamsha = %q, want raman", engine.lastInput.Ayanamsha)
	}
	if engine.lastInput.BirthTime != "12:00:00" {
		t.Errorf("birth time not normalized: %q", engine.lastInput.BirthTime)
	}
}

func TestTransitsRequireCalculatedChart(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	svc := New(repo, &fakePrefsRepo{}, &fakeEngine{}, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = svc.Transits(context.Background(), userID, created.ID)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for uncharted profile, got %v", err)
	}
}

func TestTransitsAspectNatalChart(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	engine := &fakeEngine{
		chart:    json.RawMessage(`{"planets":{"Sun":{}}}`),
		transits: &domain.TransitData{Date: "2026-08-28"},
		aspects: []domain.AspectData{
			{TransitingPlanet: "Saturn", NatalPlanet: "Moon", AspectType: "conjunction", Orb: 1.2, Applying: true},
		},
	}
	svc := New(repo, &fakePrefsRepo{}, engine, nil, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CalculateChart(context.Background(), userID, created.ID); err != nil {
		t.Fatal(err)
	}

	transits, aspects, err := svc.Transits(context.Background(), userID, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if transits.Date != "2026-08-28" {
		t.Errorf("transit date = %q", transits.Date)
	}
	if len(aspects) != 1 || aspects[0].TransitingPlanet != "Saturn" {
		t.Errorf("unexpected aspects: %+v", aspects)
	}
	if string(engine.lastNatal) != `{"planets":{"Sun":{}}}` {
		t.Errorf("aspects not computed against the stored natal chart: %s", engine.lastNatal)
	}
}

func TestTransitsSnapshotCached(t *testing.T) {
	userID := uuid.New()
	repo := newFakeProfileRepo()
	engine := &fakeEngine{
		chart:    json.RawMessage(`{"planets":{"Sun":{}}}`),
		transits: &domain.TransitData{Date: "2026-08-28"},
	}
	c := &fakeCache{}
	svc := New(repo, &fakePrefsRepo{}, engine, c, testLogger())

	created, err := svc.Create(context.Background(), validProfile(userID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CalculateChart(context.Background(), userID, created.ID); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		transits, _, err := svc.Transits(context.Background(), userID, created.ID)
		if err != nil {
			t.Fatal(err)
		}
		if transits.Date != "2026-08-28" {
			t.Errorf("call %d: transit date = %q", i, transits.Date)
		}
	}

	if engine.transitCalls != 1 {
		t.Errorf("engine hit %d times, want 1 (snapshot cached)", engine.transitCalls)
	}
	if c.sets != 1 {
		t.Errorf("cache populated %d times, want 1", c.sets)
	}
}

func TestGetForeignProfileNotFound(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := New(repo, &fakePrefsRepo{}, &fakeEngine{}, nil, testLogger())

	owner := uuid.New()
	created, err := svc.Create(context.Background(), validProfile(owner))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign profile, got %v", err)
	}
}
