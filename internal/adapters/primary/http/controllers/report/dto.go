package reportController

import (
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// GenerateRequest starts a streamed report generation.
type GenerateRequest struct {
	ReportType string `json:"report_type"`
	Language   string `json:"language"`
	Model      string `json:"model,omitempty"`
}

// ReportResponse is the list/detail shape; Content is only present on
// the detail endpoint for completed reports.
type ReportResponse struct {
	ID               uuid.UUID `json:"id"`
	ProfileID        uuid.UUID `json:"profile_id"`
	ReportType       string    `json:"report_type"`
	Title            string    `json:"title"`
	Language         string    `json:"language"`
	GenerationStatus string    `json:"generation_status"`
	Content          *string   `json:"content,omitempty"`
	ModelUsed        *string   `json:"model_used,omitempty"`
	HasPDF           bool      `json:"has_pdf"`
	Year             *int      `json:"year,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toResponse(r *domain.Report, includeContent bool) ReportResponse {
	resp := ReportResponse{
		ID:               r.ID,
		ProfileID:        r.ProfileID,
		ReportType:       string(r.ReportType),
		Title:            r.ReportType.Title(),
		Language:         r.Language,
		GenerationStatus: r.GenerationStatus,
		ModelUsed:        r.ModelUsed,
		HasPDF:           r.PDFObjectKey != nil,
		Year:             r.Year,
		CreatedAt:        r.CreatedAt,
	}
	if includeContent {
		resp.Content = r.Content
	}
	return resp
}
