package preferencesRepo

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

type preferencesColumns struct {
	TableName       string
	ID              string
	UserID          string
	Ayanamsha       string
	HouseSystem     string
	DefaultLanguage string
	PreferredModel  string
	AlertOrb        string
	AlertEnabled    string
	CreatedAt       string
	UpdatedAt       string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns preferencesColumns
}

// New creates the user preferences repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IPreferencesRepo {
	cols := preferencesColumns{
		TableName:       "user_preferences",
		ID:              "id",
		UserID:          "user_id",
		Ayanamsha:       "ayanamsha",
		HouseSystem:     "house_system",
		DefaultLanguage: "default_language",
		PreferredModel:  "preferred_model",
		AlertOrb:        "alert_orb",
		AlertEnabled:    "alert_enabled",
		CreatedAt:       "created_at",
		UpdatedAt:       "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Ayanamsha,
		r.columns.HouseSystem,
		r.columns.DefaultLanguage,
		r.columns.PreferredModel,
		r.columns.AlertOrb,
		r.columns.AlertEnabled,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

// GetByUser loads the user's saved preferences. Callers fall back to
// DefaultPreferences on ErrNotFound.
func (r *Repository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID)
	err := r.db.Get(ctx, &prefs, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences for user %s: %w", userID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get preferences",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert saves the preferences, creating the row on first save.
func (r *Repository) Upsert(ctx context.Context, prefs *domain.UserPreferences) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.UserID,
		r.columns.Ayanamsha, r.columns.Ayanamsha,
		r.columns.HouseSystem, r.columns.HouseSystem,
		r.columns.DefaultLanguage, r.columns.DefaultLanguage,
		r.columns.PreferredModel, r.columns.PreferredModel,
		r.columns.AlertOrb, r.columns.AlertOrb,
		r.columns.AlertEnabled, r.columns.AlertEnabled,
		r.columns.UpdatedAt, r.columns.UpdatedAt)
	err := r.db.Exec(ctx, query,
		prefs.ID,
		prefs.UserID,
		prefs.Ayanamsha,
		prefs.HouseSystem,
		prefs.DefaultLanguage,
		prefs.PreferredModel,
		prefs.AlertOrb,
		prefs.AlertEnabled,
		prefs.CreatedAt,
		prefs.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to upsert preferences",
			"error", err,
			"user_id", prefs.UserID)
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	r.Log.Debug("preferences saved", "user_id", prefs.UserID)
	return nil
}
