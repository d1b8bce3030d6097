package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IPreferencesRepo persists per-user settings.
type IPreferencesRepo interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	Upsert(ctx context.Context, prefs *domain.UserPreferences) error
}
