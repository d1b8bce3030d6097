package alertRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/persistence"
	ports "github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

type alertColumns struct {
	TableName   string
	ID          string
	ProfileID   string
	AlertType   string
	Title       string
	Content     string
	TriggerDate string
	Planet      string
	NatalPlanet string
	Orb         string
	IsRead      string
	CreatedAt   string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns alertColumns
}

// New creates the transit alert repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IAlertRepo {
	cols := alertColumns{
		TableName:   "transit_alerts",
		ID:          "id",
		ProfileID:   "profile_id",
		AlertType:   "alert_type",
		Title:       "title",
		Content:     "content",
		TriggerDate: "trigger_date",
		Planet:      "planet",
		NatalPlanet: "natal_planet",
		Orb:         "orb",
		IsRead:      "is_read",
		CreatedAt:   "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.ProfileID,
		r.columns.AlertType,
		r.columns.Title,
		r.columns.Content,
		r.columns.TriggerDate,
		r.columns.Planet,
		r.columns.NatalPlanet,
		r.columns.Orb,
		r.columns.IsRead,
		r.columns.CreatedAt)
}

// Create inserts a transit alert.
func (r *Repository) Create(ctx context.Context, alert *domain.TransitAlert) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		alert.ID,
		alert.ProfileID,
		alert.AlertType,
		alert.Title,
		alert.Content,
		alert.TriggerDate,
		alert.Planet,
		alert.NatalPlanet,
		alert.Orb,
		alert.IsRead,
		alert.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create alert",
			"error", err,
			"profile_id", alert.ProfileID,
			"title", alert.Title)
		return fmt.Errorf("failed to create alert: %w", err)
	}
	r.Log.Debug("alert created",
		"alert_id", alert.ID,
		"profile_id", alert.ProfileID)
	return nil
}

// ListByProfile returns a profile's alerts, newest first.
func (r *Repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.TransitAlert, error) {
	var alerts []*domain.TransitAlert
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ProfileID,
		r.columns.CreatedAt)
	err := r.db.Select(ctx, &alerts, query, profileID)
	if err != nil {
		r.Log.Error("failed to list alerts",
			"error", err,
			"profile_id", profileID)
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	r.Log.Debug("alerts retrieved",
		"profile_id", profileID,
		"count", len(alerts))
	return alerts, nil
}

// GetByID loads one alert.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransitAlert, error) {
	var alert domain.TransitAlert
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &alert, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("alert not found", "alert_id", id)
			return nil, fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get alert by id",
			"error", err,
			"alert_id", id)
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}
	return &alert, nil
}

// SetRead updates the read flag.
func (r *Repository) SetRead(ctx context.Context, id uuid.UUID, isRead bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.IsRead,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query, id, isRead)
	if err != nil {
		r.Log.Error("failed to set alert read flag",
			"error", err,
			"alert_id", id)
		return fmt.Errorf("failed to set alert read flag: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("alert not found for read update", "alert_id", id)
		return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	r.Log.Debug("alert read flag updated", "alert_id", id, "is_read", isRead)
	return nil
}

// ExistsForAspect reports whether an alert for this aspect was already
// created on the given date.
func (r *Repository) ExistsForAspect(ctx context.Context, profileID uuid.UUID, planet, natalPlanet, triggerDate string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s = $4
		)`,
		r.columns.TableName,
		r.columns.ProfileID,
		r.columns.Planet,
		r.columns.NatalPlanet,
		r.columns.TriggerDate)
	err := r.db.Get(ctx, &exists, query, profileID, planet, natalPlanet, triggerDate)
	if err != nil {
		r.Log.Error("failed to check alert existence",
			"error", err,
			"profile_id", profileID)
		return false, fmt.Errorf("failed to check alert existence: %w", err)
	}
	return exists, nil
}
