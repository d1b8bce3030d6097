package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IAlertRepo persists transit alerts.
type IAlertRepo interface {
	Create(ctx context.Context, alert *domain.TransitAlert) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.TransitAlert, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TransitAlert, error)
	SetRead(ctx context.Context, id uuid.UUID, isRead bool) error
	// ExistsForAspect dedupes the scan job: one alert per aspect per day.
	ExistsForAspect(ctx context.Context, profileID uuid.UUID, planet, natalPlanet, triggerDate string) (bool, error)
}
