package profileRepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/persistence"
	ports "github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

type profileColumns struct {
	TableName         string
	ID                string
	UserID            string
	Name              string
	Relation          string
	BirthDate         string
	BirthTime         string
	BirthPlace        string
	Latitude          string
	Longitude         string
	Timezone          string
	ChartData         string
	ChartCalculatedAt string
	AvatarURL         string
	IsActive          string
	CreatedAt         string
	UpdatedAt         string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns profileColumns
}

// New creates the profile repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IProfileRepo {
	cols := profileColumns{
		TableName:         "profiles",
		ID:                "id",
		UserID:            "user_id",
		Name:              "name",
		Relation:          "relation",
		BirthDate:         "birth_date",
		BirthTime:         "birth_time",
		BirthPlace:        "birth_place",
		Latitude:          "latitude",
		Longitude:         "longitude",
		Timezone:          "timezone",
		ChartData:         "chart_data",
		ChartCalculatedAt: "chart_calculated_at",
		AvatarURL:         "avatar_url",
		IsActive:          "is_active",
		CreatedAt:         "created_at",
		UpdatedAt:         "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Name,
		r.columns.Relation,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthPlace,
		r.columns.Latitude,
		r.columns.Longitude,
		r.columns.Timezone,
		r.columns.ChartData,
		r.columns.ChartCalculatedAt,
		r.columns.AvatarURL,
		r.columns.IsActive,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

// Create inserts a new birth profile.
func (r *Repository) Create(ctx context.Context, profile *domain.Profile) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Relation,
		profile.BirthDate,
		profile.BirthTime,
		profile.BirthPlace,
		profile.Latitude,
		profile.Longitude,
		profile.Timezone,
		profile.ChartData,
		profile.ChartCalculatedAt,
		profile.AvatarURL,
		profile.IsActive,
		profile.CreatedAt,
		profile.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create profile",
			"error", err,
			"user_id", profile.UserID,
			"profile_id", profile.ID)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	r.Log.Debug("profile created successfully",
		"profile_id", profile.ID,
		"user_id", profile.UserID)
	return nil
}

// GetByID loads a profile scoped by the owning user. Absent and
// not-owned both come back as ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID,
		r.columns.UserID)
	err := r.db.Get(ctx, &profile, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("profile not found", "profile_id", id)
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get profile by id",
			"error", err,
			"profile_id", id)
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return &profile, nil
}

// ListByUser returns all profiles belonging to the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.CreatedAt)
	err := r.db.Select(ctx, &profiles, query, userID)
	if err != nil {
		r.Log.Error("failed to list profiles",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	r.Log.Debug("profiles retrieved successfully",
		"user_id", userID,
		"count", len(profiles))
	return profiles, nil
}

// Update rewrites the mutable profile fields, scoped by owner.
func (r *Repository) Update(ctx context.Context, profile *domain.Profile) error {
	query := fmt.Sprintf(`UPDATE %s SET
			%s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = $8, %s = $9, %s = $10, %s = $11, %s = $12, %s = $13
		WHERE %s = $1 AND %s = $2`,
		r.columns.TableName,
		r.columns.Name,
		r.columns.Relation,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthPlace,
		r.columns.Latitude,
		r.columns.Longitude,
		r.columns.Timezone,
		r.columns.AvatarURL,
		r.columns.IsActive,
		r.columns.UpdatedAt,
		r.columns.ID,
		r.columns.UserID)
	affected, err := r.db.ExecWithResult(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Relation,
		profile.BirthDate,
		profile.BirthTime,
		profile.BirthPlace,
		profile.Latitude,
		profile.Longitude,
		profile.Timezone,
		profile.AvatarURL,
		profile.IsActive,
		profile.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to update profile",
			"error", err,
			"profile_id", profile.ID)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("profile not found for update", "profile_id", profile.ID)
		return fmt.Errorf("profile %s: %w", profile.ID, domain.ErrNotFound)
	}
	r.Log.Debug("profile updated successfully", "profile_id", profile.ID)
	return nil
}

// Delete removes a profile; chunks, reports, sessions and alerts go
// with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.UserID)
	affected, err := r.db.ExecWithResult(ctx, query, id, userID)
	if err != nil {
		r.Log.Error("failed to delete profile",
			"error", err,
			"profile_id", id)
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("profile not found for delete", "profile_id", id)
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	r.Log.Debug("profile deleted successfully", "profile_id", id)
	return nil
}

// UpdateChartData stores a freshly calculated chart payload.
func (r *Repository) UpdateChartData(ctx context.Context, userID, id uuid.UUID, chart json.RawMessage, calculatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4, %s = $5 WHERE %s = $1 AND %s = $2`,
		r.columns.TableName,
		r.columns.ChartData,
		r.columns.ChartCalculatedAt,
		r.columns.UpdatedAt,
		r.columns.ID,
		r.columns.UserID)
	affected, err := r.db.ExecWithResult(ctx, query, id, userID, chart, calculatedAt, time.Now())
	if err != nil {
		r.Log.Error("failed to update chart data",
			"error", err,
			"profile_id", id)
		return fmt.Errorf("failed to update chart data: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("profile not found for chart update", "profile_id", id)
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	r.Log.Debug("chart data updated successfully", "profile_id", id)
	return nil
}

// GetForWorker loads a profile without user scoping.
func (r *Repository) GetForWorker(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("profile not found for worker", "profile_id", id)
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get profile for worker",
			"error", err,
			"profile_id", id)
		return nil, fmt.Errorf("failed to get profile for worker: %w", err)
	}
	return &profile, nil
}

// ListActiveWithChart returns all active profiles that have a chart,
// the candidate set for the daily alert scan.
func (r *Repository) ListActiveWithChart(ctx context.Context) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = true AND %s IS NOT NULL`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.IsActive,
		r.columns.ChartData)
	err := r.db.Select(ctx, &profiles, query)
	if err != nil {
		r.Log.Error("failed to list active profiles with chart", "error", err)
		return nil, fmt.Errorf("failed to list active profiles with chart: %w", err)
	}
	r.Log.Debug("active profiles with chart retrieved", "count", len(profiles))
	return profiles, nil
}
