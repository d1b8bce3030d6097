package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertTypePlanetTransit is the only alert kind produced today.
const AlertTypePlanetTransit = "planet_transit"

// TransitAlert records a significant aspect between a transiting and a
// natal planet. Created by the alert scan job; only the read flag is
// ever mutated afterwards.
type TransitAlert struct {
	ID          uuid.UUID `db:"id"`
	ProfileID   uuid.UUID `db:"profile_id"`
	AlertType   string    `db:"alert_type"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	TriggerDate string    `db:"trigger_date"` // YYYY-MM-DD
	Planet      *string   `db:"planet"`
	NatalPlanet *string   `db:"natal_planet"`
	Orb         *float64  `db:"orb"`
	IsRead      bool      `db:"is_read"`
	CreatedAt   time.Time `db:"created_at"`
}
