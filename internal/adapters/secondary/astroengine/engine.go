package astroengine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

// CalculateChart computes the full natal chart for a birth input.
// The payload is stored as-is; we only verify it parses and carries planets.
func (c *Client) CalculateChart(ctx context.Context, input service.BirthInput) (json.RawMessage, error) {
	body, err := c.doJSON(ctx, http.MethodPost, pathChart, input)
	if err != nil {
		c.Log.Debug("chart calculation failed", "error", err)
		return nil, err
	}

	var chart domain.ChartData
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if len(chart.Planets) == 0 {
		return nil, fmt.Errorf("chart response has no planets: %w", domain.ErrUpstream)
	}

	c.Log.Debug("chart calculated",
		"planets", len(chart.Planets),
		"houses", len(chart.Houses),
	)

	return json.RawMessage(body), nil
}

// GetTransits returns current planetary positions, both decoded and raw.
func (c *Client) GetTransits(ctx context.Context) (*domain.TransitData, json.RawMessage, error) {
	body, err := c.doJSON(ctx, http.MethodGet, pathTransits, nil)
	if err != nil {
		c.Log.Debug("transits request failed", "error", err)
		return nil, nil, err
	}

	var transits domain.TransitData
	if err := json.Unmarshal(body, &transits); err != nil {
		return nil, nil, fmt.Errorf("failed to parse transits response: %w", err)
	}

	return &transits, json.RawMessage(body), nil
}

type transitAspectsRequest struct {
	Natal    json.RawMessage `json:"natal"`
	Transits json.RawMessage `json:"transits"`
}

type transitAspectsResponse struct {
	Aspects []domain.AspectData `json:"aspects"`
}

// GetTransitAspects computes aspects between current transits and a natal chart.
func (c *Client) GetTransitAspects(ctx context.Context, natal json.RawMessage, transits json.RawMessage) ([]domain.AspectData, error) {
	req := transitAspectsRequest{
		Natal:    natal,
		Transits: transits,
	}

	body, err := c.doJSON(ctx, http.MethodPost, pathTransitsNatal, req)
	if err != nil {
		c.Log.Debug("transit aspects request failed", "error", err)
		return nil, err
	}

	var resp transitAspectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse aspects response: %w", err)
	}

	return resp.Aspects, nil
}

// RenderPDF renders report markdown into a PDF document.
func (c *Client) RenderPDF(ctx context.Context, req service.PDFRequest) ([]byte, error) {
	body, err := c.doJSON(ctx, http.MethodPost, pathPDFReport, req)
	if err != nil {
		c.Log.Debug("pdf render failed", "title", req.Title, "error", err)
		return nil, err
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("pdf render returned empty body: %w", domain.ErrUpstream)
	}

	return body, nil
}
