package handlers

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
	"github.com/prabhat9478/jyotish-web/internal/ports/queue"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

type stubProfileRepo struct {
	profile *domain.Profile
}

func (s *stubProfileRepo) Create(ctx context.Context, p *domain.Profile) error { return nil }
func (s *stubProfileRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	return nil, domain.ErrNotFound
}
func (s *stubProfileRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	return nil, nil
}
func (s *stubProfileRepo) Update(ctx context.Context, p *domain.Profile) error { return nil }
func (s *stubProfileRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}
func (s *stubProfileRepo) UpdateChartData(ctx context.Context, userID, id uuid.UUID, chart json.RawMessage, calculatedAt time.Time) error {
	return nil
}
func (s *stubProfileRepo) GetForWorker(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if s.profile == nil || s.profile.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.profile, nil
}
func (s *stubProfileRepo) ListActiveWithChart(ctx context.Context) ([]*domain.Profile, error) {
	return nil, nil
}

type stubPrefsRepo struct {
	prefs *domain.UserPreferences
}

func (s *stubPrefsRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if s.prefs == nil {
		return nil, domain.ErrNotFound
	}
	return s.prefs, nil
}
func (s *stubPrefsRepo) Upsert(ctx context.Context, prefs *domain.UserPreferences) error {
	return nil
}

type stubAlertRepo struct {
	existing map[string]bool
	created  []*domain.TransitAlert
}

func (s *stubAlertRepo) Create(ctx context.Context, alert *domain.TransitAlert) error {
	s.created = append(s.created, alert)
	return nil
}
func (s *stubAlertRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.TransitAlert, error) {
	return nil, nil
}
func (s *stubAlertRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransitAlert, error) {
	return nil, domain.ErrNotFound
}
func (s *stubAlertRepo) SetRead(ctx context.Context, id uuid.UUID, isRead bool) error {
	return nil
}
func (s *stubAlertRepo) ExistsForAspect(ctx context.Context, profileID uuid.UUID, planet, natalPlanet, triggerDate string) (bool, error) {
	return s.existing[planet+"/"+natalPlanet], nil
}

type stubEngine struct {
	aspects []domain.AspectData
}

func (s *stubEngine) CalculateChart(ctx context.Context, input service.BirthInput) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}
func (s *stubEngine) GetTransits(ctx context.Context) (*domain.TransitData, json.RawMessage, error) {
	return &domain.TransitData{}, json.RawMessage(`{}`), nil
}
func (s *stubEngine) GetTransitAspects(ctx context.Context, natal, transits json.RawMessage) ([]domain.AspectData, error) {
	return s.aspects, nil
}
func (s *stubEngine) RenderPDF(ctx context.Context, req service.PDFRequest) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func alertSetup(aspects []domain.AspectData, prefs *domain.UserPreferences) (*AlertGenerationHandler, *stubAlertRepo, uuid.UUID) {
	profileID := uuid.New()
	userID := uuid.New()
	if prefs != nil {
		prefs.UserID = userID
	}

	profiles := &stubProfileRepo{profile: &domain.Profile{
		ID:        profileID,
		UserID:    userID,
		ChartData: json.RawMessage(`{"planets":{"Sun":{}}}`),
	}}
	alerts := &stubAlertRepo{existing: map[string]bool{}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewAlertGenerationHandler(profiles, &stubPrefsRepo{prefs: prefs}, alerts, &stubEngine{aspects: aspects}, log)
	return h, alerts, profileID
}

func alertPayload(t *testing.T, profileID uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"profile_id": profileID.String()})
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func TestAlertScanFiltersByOrbAndApplying(t *testing.T) {
	aspects := []domain.AspectData{
		{TransitingPlanet: "Saturn", NatalPlanet: "Moon", AspectType: "conjunction", Orb: 1.2, Applying: true},
		{TransitingPlanet: "Jupiter", NatalPlanet: "Sun", AspectType: "trine", Orb: 3.5, Applying: true},
		{TransitingPlanet: "Mars", NatalPlanet: "Venus", AspectType: "square", Orb: 0.8, Applying: false},
		{TransitingPlanet: "Mercury", NatalPlanet: "Mars", AspectType: "sextile", Orb: -1.5, Applying: true},
	}
	prefs := domain.DefaultPreferences(uuid.Nil) // orb 2.0, alerts on
	h, alerts, profileID := alertSetup(aspects, prefs)

	if err := h.Handle(context.Background(), queue.JobGenerateAlerts, profileID.String(), alertPayload(t, profileID)); err != nil {
		t.Fatal(err)
	}

	// Saturn (tight, applying) and Mercury (|-1.5| < 2.0, applying) pass;
	// Jupiter is too wide, Mars is separating.
	if len(alerts.created) != 2 {
		t.Fatalf("alerts created = %d, want 2", len(alerts.created))
	}
	first := alerts.created[0]
	if first.Title != "Saturn conjunction Natal Moon" {
		t.Errorf("title = %q", first.Title)
	}
	if first.AlertType != domain.AlertTypePlanetTransit {
		t.Errorf("alert type = %q", first.AlertType)
	}
	if first.TriggerDate != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("trigger date = %q", first.TriggerDate)
	}
}

func TestAlertScanDedupesPerDay(t *testing.T) {
	aspects := []domain.AspectData{
		{TransitingPlanet: "Saturn", NatalPlanet: "Moon", AspectType: "conjunction", Orb: 1.2, Applying: true},
	}
	prefs := domain.DefaultPreferences(uuid.Nil)
	h, alerts, profileID := alertSetup(aspects, prefs)
	alerts.existing["Saturn/Moon"] = true

	if err := h.Handle(context.Background(), queue.JobGenerateAlerts, profileID.String(), alertPayload(t, profileID)); err != nil {
		t.Fatal(err)
	}
	if len(alerts.created) != 0 {
		t.Errorf("duplicate alert created: %d", len(alerts.created))
	}
}

func TestAlertScanSkipsWhenDisabled(t *testing.T) {
	aspects := []domain.AspectData{
		{TransitingPlanet: "Saturn", NatalPlanet: "Moon", AspectType: "conjunction", Orb: 0.5, Applying: true},
	}
	prefs := domain.DefaultPreferences(uuid.Nil)
	prefs.AlertEnabled = false
	h, alerts, profileID := alertSetup(aspects, prefs)

	if err := h.Handle(context.Background(), queue.JobGenerateAlerts, profileID.String(), alertPayload(t, profileID)); err != nil {
		t.Fatal(err)
	}
	if len(alerts.created) != 0 {
		t.Errorf("alerts created despite disabled prefs: %d", len(alerts.created))
	}
}

func TestAlertScanDefaultsWhenNoPreferencesRow(t *testing.T) {
	aspects := []domain.AspectData{
		{TransitingPlanet: "Saturn", NatalPlanet: "Moon", AspectType: "conjunction", Orb: 1.2, Applying: true},
		{TransitingPlanet: "Jupiter", NatalPlanet: "Sun", AspectType: "trine", Orb: 3.5, Applying: true},
	}
	h, alerts, profileID := alertSetup(aspects, nil)

	if err := h.Handle(context.Background(), queue.JobGenerateAlerts, profileID.String(), alertPayload(t, profileID)); err != nil {
		t.Fatal(err)
	}

	// Defaults apply: alerts enabled, 2.0 orb. Saturn passes, Jupiter is
	// too wide.
	if len(alerts.created) != 1 {
		t.Fatalf("alerts created = %d, want 1", len(alerts.created))
	}
	if alerts.created[0].Title != "Saturn conjunction Natal Moon" {
		t.Errorf("title = %q", alerts.created[0].Title)
	}
}

func TestAlertScanInvalidPayload(t *testing.T) {
	h, _, _ := alertSetup(nil, domain.DefaultPreferences(uuid.Nil))

	err := h.Handle(context.Background(), queue.JobGenerateAlerts, "", []byte("not json"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAlertScanUnchartedProfileIsBusinessError(t *testing.T) {
	prefs := domain.DefaultPreferences(uuid.Nil)
	h, _, profileID := alertSetup(nil, prefs)
	h.profileRepo.(*stubProfileRepo).profile.ChartData = nil

	err := h.Handle(context.Background(), queue.JobGenerateAlerts, profileID.String(), alertPayload(t, profileID))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for uncharted profile, got %v", err)
	}
}
