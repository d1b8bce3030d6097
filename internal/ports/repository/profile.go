package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IProfileRepo persists birth profiles. Every read and write is scoped
// by the owning user in addition to row-level policies.
type IProfileRepo interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	UpdateChartData(ctx context.Context, userID, id uuid.UUID, chart json.RawMessage, calculatedAt time.Time) error

	// GetForWorker loads a profile without user scoping; background
	// workers have no acting user.
	GetForWorker(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	ListActiveWithChart(ctx context.Context) ([]*domain.Profile, error)
}
