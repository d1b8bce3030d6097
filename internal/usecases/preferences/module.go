package preferences

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

// Service reads and writes per-account settings. Accounts that never
// saved anything get the defaults back.
type Service struct {
	PrefsRepo repository.IPreferencesRepo
	Log       *slog.Logger
}

func New(prefsRepo repository.IPreferencesRepo, log *slog.Logger) *Service {
	return &Service{PrefsRepo: prefsRepo, Log: log}
}

// Get returns the stored preferences or the defaults when none exist.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	prefs, err := s.PrefsRepo.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// Update validates and upserts the caller's preferences.
func (s *Service) Update(ctx context.Context, prefs *domain.UserPreferences) (*domain.UserPreferences, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	if prefs.ID == uuid.Nil {
		prefs.ID = uuid.New()
		prefs.CreatedAt = now
	}
	prefs.UpdatedAt = now

	if err := s.PrefsRepo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	s.Log.Debug("preferences updated", "user_id", prefs.UserID)
	return s.PrefsRepo.GetByUser(ctx, prefs.UserID)
}
