package service

import (
	"context"
	"encoding/json"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// BirthInput is the request shape accepted by the astro engine.
type BirthInput struct {
	Name      string  `json:"name,omitempty"`
	BirthDate string  `json:"birth_date"` // YYYY-MM-DD
	BirthTime string  `json:"birth_time"` // HH:MM:SS
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Ayanamsha string  `json:"ayanamsha,omitempty"`
}

// PDFRequest is the render request sent to the engine's PDF endpoint.
type PDFRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
}

// IAstroEngine is the external astrology calculation microservice.
// All chart math lives behind it; this service treats the payloads as
// opaque beyond the fields needed for prompts and alerts.
type IAstroEngine interface {
	CalculateChart(ctx context.Context, input BirthInput) (json.RawMessage, error)
	GetTransits(ctx context.Context) (*domain.TransitData, json.RawMessage, error)
	GetTransitAspects(ctx context.Context, natal json.RawMessage, transits json.RawMessage) ([]domain.AspectData, error)
	RenderPDF(ctx context.Context, req PDFRequest) ([]byte, error)
}
