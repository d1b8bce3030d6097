package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	birthDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	birthTimeRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// Relation labels a profile's relation to the account owner.
type Relation string

const (
	RelationSelf    Relation = "self"
	RelationSpouse  Relation = "spouse"
	RelationParent  Relation = "parent"
	RelationChild   Relation = "child"
	RelationSibling Relation = "sibling"
	RelationOther   Relation = "other"
)

// IsValid reports whether the relation is one of the known labels.
func (r Relation) IsValid() bool {
	switch r {
	case RelationSelf, RelationSpouse, RelationParent, RelationChild, RelationSibling, RelationOther:
		return true
	}
	return false
}

// Profile is one birth record, owned by exactly one user account.
type Profile struct {
	ID                uuid.UUID       `db:"id"`
	UserID            uuid.UUID       `db:"user_id"`
	Name              string          `db:"name"`
	Relation          *Relation       `db:"relation"`
	BirthDate         string          `db:"birth_date"` // YYYY-MM-DD
	BirthTime         string          `db:"birth_time"` // HH:MM[:SS]
	BirthPlace        string          `db:"birth_place"`
	Latitude          float64         `db:"latitude"`
	Longitude         float64         `db:"longitude"`
	Timezone          string          `db:"timezone"`
	ChartData         json.RawMessage `db:"chart_data"`
	ChartCalculatedAt *time.Time      `db:"chart_calculated_at"`
	AvatarURL         *string         `db:"avatar_url"`
	IsActive          bool            `db:"is_active"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// Validate checks all invariants of the birth record. Runs before any
// persistence or external call.
func (p *Profile) Validate() error {
	if name := strings.TrimSpace(p.Name); name == "" || len(name) > 100 {
		return NewValidationError("name", "must be 1-100 characters")
	}
	if p.Relation != nil && !p.Relation.IsValid() {
		return NewValidationError("relation", "must be one of self, spouse, parent, child, sibling, other")
	}
	if !birthDateRe.MatchString(p.BirthDate) {
		return NewValidationError("birth_date", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", p.BirthDate); err != nil {
		return NewValidationError("birth_date", "not a calendar date")
	}
	if !birthTimeRe.MatchString(p.BirthTime) {
		return NewValidationError("birth_time", "must be HH:MM or HH:MM:SS")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return NewValidationError("latitude", "must be within [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return NewValidationError("longitude", "must be within [-180, 180]")
	}
	if strings.TrimSpace(p.BirthPlace) == "" || len(p.BirthPlace) > 200 {
		return NewValidationError("birth_place", "must be 1-200 characters")
	}
	if strings.TrimSpace(p.Timezone) == "" {
		return NewValidationError("timezone", "is required")
	}
	return nil
}

// HasChart reports whether a chart payload has been computed.
func (p *Profile) HasChart() bool {
	return len(p.ChartData) > 0
}

// Chart decodes the stored chart payload.
func (p *Profile) Chart() (*ChartData, error) {
	if !p.HasChart() {
		return nil, ErrNotFound
	}
	var chart ChartData
	if err := json.Unmarshal(p.ChartData, &chart); err != nil {
		return nil, err
	}
	chart.Raw = p.ChartData
	return &chart, nil
}
