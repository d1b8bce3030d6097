package profileController

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// ProfileRequest carries the mutable birth record fields.
type ProfileRequest struct {
	Name       string  `json:"name"`
	Relation   *string `json:"relation,omitempty"`
	BirthDate  string  `json:"birth_date"`
	BirthTime  string  `json:"birth_time"`
	BirthPlace string  `json:"birth_place"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Timezone   string  `json:"timezone"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
}

func (r *ProfileRequest) toDomain(userID uuid.UUID) *domain.Profile {
	var relation *domain.Relation
	if r.Relation != nil {
		rel := domain.Relation(*r.Relation)
		relation = &rel
	}
	return &domain.Profile{
		UserID:     userID,
		Name:       r.Name,
		Relation:   relation,
		BirthDate:  r.BirthDate,
		BirthTime:  r.BirthTime,
		BirthPlace: r.BirthPlace,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Timezone:   r.Timezone,
		AvatarURL:  r.AvatarURL,
	}
}

// ProfileResponse mirrors a profile without the chart payload; the
// chart has its own endpoint.
type ProfileResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Relation          *string    `json:"relation,omitempty"`
	BirthDate         string     `json:"birth_date"`
	BirthTime         string     `json:"birth_time"`
	BirthPlace        string     `json:"birth_place"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	Timezone          string     `json:"timezone"`
	HasChart          bool       `json:"has_chart"`
	ChartCalculatedAt *time.Time `json:"chart_calculated_at,omitempty"`
	AvatarURL         *string    `json:"avatar_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toResponse(p *domain.Profile) ProfileResponse {
	var relation *string
	if p.Relation != nil {
		rel := string(*p.Relation)
		relation = &rel
	}
	return ProfileResponse{
		ID:                p.ID,
		Name:              p.Name,
		Relation:          relation,
		BirthDate:         p.BirthDate,
		BirthTime:         p.BirthTime,
		BirthPlace:        p.BirthPlace,
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		Timezone:          p.Timezone,
		HasChart:          p.HasChart(),
		ChartCalculatedAt: p.ChartCalculatedAt,
		AvatarURL:         p.AvatarURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ChartResponse returns the raw chart payload as computed by the engine.
type ChartResponse struct {
	ProfileID    uuid.UUID       `json:"profile_id"`
	CalculatedAt *time.Time      `json:"calculated_at,omitempty"`
	Chart        json.RawMessage `json:"chart"`
}

// TransitsResponse pairs the current positions with the aspects they
// make to the profile's natal chart.
type TransitsResponse struct {
	ProfileID uuid.UUID           `json:"profile_id"`
	Transits  *domain.TransitData `json:"transits"`
	Aspects   []domain.AspectData `json:"aspects"`
}
