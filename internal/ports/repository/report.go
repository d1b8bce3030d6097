package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// IReportRepo persists generated reports.
type IReportRepo interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Report, error)
	// Complete stores the final content and transitions generating -> complete.
	Complete(ctx context.Context, id uuid.UUID, content string) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	SetPDF(ctx context.Context, id uuid.UUID, objectKey string, generatedAt time.Time) error
}
