package domain

import (
	"time"

	"github.com/google/uuid"
)

// Preference defaults applied when the user has never saved settings.
const (
	DefaultAyanamsha   = "lahiri"
	DefaultHouseSystem = "whole_sign"
	DefaultChatModel   = "anthropic/claude-sonnet-4-5"
	DefaultAlertOrb    = 2.0
)

// UserPreferences holds per-account calculation and notification settings.
type UserPreferences struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	Ayanamsha       string    `db:"ayanamsha"`
	HouseSystem     string    `db:"house_system"`
	DefaultLanguage string    `db:"default_language"`
	PreferredModel  string    `db:"preferred_model"`
	AlertOrb        float64   `db:"alert_orb"`
	AlertEnabled    bool      `db:"alert_enabled"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DefaultPreferences returns the settings used before the user saves any.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	now := time.Now()
	return &UserPreferences{
		ID:              uuid.New(),
		UserID:          userID,
		Ayanamsha:       DefaultAyanamsha,
		HouseSystem:     DefaultHouseSystem,
		DefaultLanguage: LanguageEnglish,
		PreferredModel:  DefaultChatModel,
		AlertOrb:        DefaultAlertOrb,
		AlertEnabled:    true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate checks the mutable preference fields.
func (p *UserPreferences) Validate() error {
	switch p.Ayanamsha {
	case "lahiri", "raman", "krishnamurti":
	default:
		return NewValidationError("ayanamsha", "must be one of lahiri, raman, krishnamurti")
	}
	switch p.DefaultLanguage {
	case LanguageEnglish, LanguageHindi:
	default:
		return NewValidationError("default_language", "must be en or hi")
	}
	if p.AlertOrb <= 0 || p.AlertOrb > 10 {
		return NewValidationError("alert_orb", "must be within (0, 10]")
	}
	return nil
}
