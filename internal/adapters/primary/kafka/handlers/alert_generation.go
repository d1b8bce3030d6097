package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

const (
	alertMaxAttempts = 2
	alertRetryDelay  = 5 * time.Second
)

// AlertGenerationHandler scans one profile's chart against current
// transits and records an alert for each tight applying aspect.
type AlertGenerationHandler struct {
	profileRepo repository.IProfileRepo
	prefsRepo   repository.IPreferencesRepo
	alertRepo   repository.IAlertRepo
	engine      service.IAstroEngine
	log         *slog.Logger
}

// NewAlertGenerationHandler creates the alert scan job handler.
func NewAlertGenerationHandler(
	profileRepo repository.IProfileRepo,
	prefsRepo repository.IPreferencesRepo,
	alertRepo repository.IAlertRepo,
	engine service.IAstroEngine,
	log *slog.Logger,
) *AlertGenerationHandler {
	return &AlertGenerationHandler{
		profileRepo: profileRepo,
		prefsRepo:   prefsRepo,
		alertRepo:   alertRepo,
		engine:      engine,
		log:         log,
	}
}

type alertJobPayload struct {
	ProfileID uuid.UUID `json:"profile_id"`
}

// Handle processes one alert scan job.
func (h *AlertGenerationHandler) Handle(ctx context.Context, jobType string, key string, value []byte) error {
	var payload alertJobPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return fmt.Errorf("invalid alert job payload: %w", domain.ErrValidation)
	}
	if payload.ProfileID == uuid.Nil {
		return fmt.Errorf("alert job has no profile_id: %w", domain.ErrValidation)
	}

	var lastErr error
	for attempt := 1; attempt <= alertMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(alertRetryDelay):
			}
		}

		if lastErr = h.scan(ctx, payload.ProfileID); lastErr == nil {
			return nil
		}
		if isBusinessError(lastErr) {
			return lastErr
		}

		h.log.Warn("alert scan attempt failed",
			"profile_id", payload.ProfileID,
			"attempt", attempt,
			"error", lastErr,
		)
	}

	return fmt.Errorf("alert scan failed after %d attempts: %w", alertMaxAttempts, lastErr)
}

func (h *AlertGenerationHandler) scan(ctx context.Context, profileID uuid.UUID) error {
	profile, err := h.profileRepo.GetForWorker(ctx, profileID)
	if err != nil {
		return fmt.Errorf("failed to load profile %s: %w", profileID, err)
	}
	if !profile.HasChart() {
		return fmt.Errorf("profile %s has no calculated chart: %w", profileID, domain.ErrValidation)
	}

	prefs, err := h.prefsRepo.GetByUser(ctx, profile.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		prefs = domain.DefaultPreferences(profile.UserID)
	} else if err != nil {
		return fmt.Errorf("failed to load preferences for user %s: %w", profile.UserID, err)
	}
	if !prefs.AlertEnabled {
		h.log.Debug("alerts disabled for user, skipping scan",
			"profile_id", profileID,
			"user_id", profile.UserID,
		)
		return nil
	}

	_, transitsRaw, err := h.engine.GetTransits(ctx)
	if err != nil {
		return fmt.Errorf("failed to get transits: %w", err)
	}

	aspects, err := h.engine.GetTransitAspects(ctx, profile.ChartData, transitsRaw)
	if err != nil {
		return fmt.Errorf("failed to compute transit aspects: %w", err)
	}

	triggerDate := time.Now().UTC().Format("2006-01-02")
	created := 0

	for _, aspect := range aspects {
		if math.Abs(aspect.Orb) >= prefs.AlertOrb || !aspect.Applying {
			continue
		}

		exists, err := h.alertRepo.ExistsForAspect(ctx, profileID, aspect.TransitingPlanet, aspect.NatalPlanet, triggerDate)
		if err != nil {
			return fmt.Errorf("failed to check alert dedupe: %w", err)
		}
		if exists {
			continue
		}

		planet := aspect.TransitingPlanet
		natalPlanet := aspect.NatalPlanet
		orb := aspect.Orb
		alert := &domain.TransitAlert{
			ID:        uuid.New(),
			ProfileID: profileID,
			AlertType: domain.AlertTypePlanetTransit,
			Title:     fmt.Sprintf("%s %s Natal %s", aspect.TransitingPlanet, aspect.AspectType, aspect.NatalPlanet),
			Content: fmt.Sprintf("Transiting %s is forming a %s aspect with your natal %s. Orb: %.2f°",
				aspect.TransitingPlanet, aspect.AspectType, aspect.NatalPlanet, aspect.Orb),
			TriggerDate: triggerDate,
			Planet:      &planet,
			NatalPlanet: &natalPlanet,
			Orb:         &orb,
			CreatedAt:   time.Now(),
		}

		if err := h.alertRepo.Create(ctx, alert); err != nil {
			return fmt.Errorf("failed to create alert: %w", err)
		}
		created++
	}

	h.log.Info("alert scan complete",
		"profile_id", profileID,
		"aspects", len(aspects),
		"alerts_created", created,
	)

	return nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound)
}
