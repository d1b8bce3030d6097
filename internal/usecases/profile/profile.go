package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

// Create validates and stores a new birth profile. Validation runs
// before any persistence call.
func (s *Service) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	profile.ID = uuid.New()
	profile.IsActive = true
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile.ChartData = nil
	profile.ChartCalculatedAt = nil

	if err := s.ProfileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.Log.Info("profile created",
		"profile_id", profile.ID,
		"user_id", profile.UserID,
	)
	return profile, nil
}

// Get loads one profile owned by the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	return s.ProfileRepo.GetByID(ctx, userID, id)
}

// List returns the user's profiles.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	return s.ProfileRepo.ListByUser(ctx, userID)
}

// Update validates and applies edits to an existing profile. When the
// birth data changed, the stored chart is stale and is cleared.
func (s *Service) Update(ctx context.Context, updated *domain.Profile) (*domain.Profile, error) {
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.ProfileRepo.GetByID(ctx, updated.UserID, updated.ID)
	if err != nil {
		return nil, err
	}

	birthChanged := existing.BirthDate != updated.BirthDate ||
		existing.BirthTime != updated.BirthTime ||
		existing.Latitude != updated.Latitude ||
		existing.Longitude != updated.Longitude ||
		existing.Timezone != updated.Timezone

	updated.UpdatedAt = time.Now()
	if err := s.ProfileRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if birthChanged && existing.HasChart() {
		if err := s.ProfileRepo.UpdateChartData(ctx, updated.UserID, updated.ID, nil, time.Time{}); err != nil {
			s.Log.Warn("failed to clear stale chart",
				"error", err,
				"profile_id", updated.ID,
			)
		} else {
			s.Log.Info("stale chart cleared after birth data change", "profile_id", updated.ID)
		}
	}

	return s.ProfileRepo.GetByID(ctx, updated.UserID, updated.ID)
}

// Delete removes a profile and everything scoped under it.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.ProfileRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.Log.Info("profile deleted", "profile_id", id, "user_id", userID)
	return nil
}

const (
	transitsCacheKey = "transits:current"
	transitsCacheTTL = 15 * time.Minute
)

// Transits returns the current planetary positions and the aspects
// they make to the profile's natal chart. The profile must already
// have a calculated chart. Positions move slowly, so the engine
// snapshot is cached; aspects depend on the natal chart and are
// computed per request.
func (s *Service) Transits(ctx context.Context, userID, id uuid.UUID) (*domain.TransitData, []domain.AspectData, error) {
	profile, err := s.ProfileRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if !profile.HasChart() {
		return nil, nil, fmt.Errorf("profile %s has no calculated chart: %w", id, domain.ErrValidation)
	}

	transits, rawTransits, err := s.currentTransits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("transit positions: %w", err)
	}

	aspects, err := s.Engine.GetTransitAspects(ctx, profile.ChartData, rawTransits)
	if err != nil {
		return nil, nil, fmt.Errorf("transit aspects: %w", err)
	}

	return transits, aspects, nil
}

// currentTransits serves the engine's transit snapshot through the
// cache. Cache failures are logged and fall through to the engine.
func (s *Service) currentTransits(ctx context.Context) (*domain.TransitData, json.RawMessage, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, transitsCacheKey)
		if err == nil {
			var transits domain.TransitData
			if err := json.Unmarshal([]byte(cached), &transits); err == nil {
				return &transits, json.RawMessage(cached), nil
			}
			s.Log.Warn("corrupt transit snapshot in cache, refetching", "error", err)
		}
	}

	transits, raw, err := s.Engine.GetTransits(ctx)
	if err != nil {
		return nil, nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, transitsCacheKey, string(raw), transitsCacheTTL); err != nil {
			s.Log.Warn("failed to cache transit snapshot", "error", err)
		}
	}
	return transits, raw, nil
}

// CalculateChart asks the astro engine for the full chart and stores
// the payload on the profile. The user's preferred ayanamsha applies.
func (s *Service) CalculateChart(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.ProfileRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	ayanamsha := domain.DefaultAyanamsha
	prefs, err := s.PrefsRepo.GetByUser(ctx, userID)
	if err == nil {
		ayanamsha = prefs.Ayanamsha
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	birthTime := profile.BirthTime
	if len(birthTime) == 5 {
		birthTime += ":00"
	}

	chart, err := s.Engine.CalculateChart(ctx, service.BirthInput{
		Name:      profile.Name,
		BirthDate: profile.BirthDate,
		BirthTime: birthTime,
		Latitude:  profile.Latitude,
		Longitude: profile.Longitude,
		Timezone:  profile.Timezone,
		Ayanamsha: ayanamsha,
	})
	if err != nil {
		return nil, fmt.Errorf("chart calculation failed: %w", err)
	}

	calculatedAt := time.Now()
	if err := s.ProfileRepo.UpdateChartData(ctx, userID, id, chart, calculatedAt); err != nil {
		return nil, err
	}

	s.Log.Info("chart calculated",
		"profile_id", id,
		"user_id", userID,
		"ayanamsha", ayanamsha,
	)
	return s.ProfileRepo.GetByID(ctx, userID, id)
}
