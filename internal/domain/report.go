package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportType enumerates the nine supported report kinds.
type ReportType string

const (
	ReportCareer            ReportType = "career"
	ReportWealth            ReportType = "wealth"
	ReportInDepth           ReportType = "in_depth"
	ReportYearly            ReportType = "yearly"
	ReportNumerology        ReportType = "numerology"
	ReportGemRecommendation ReportType = "gem_recommendation"
	ReportTransitSaturn     ReportType = "transit_saturn"
	ReportTransitJupiter    ReportType = "transit_jupiter"
	ReportTransitRahuKetu   ReportType = "transit_rahu_ketu"
)

// ReportTypes lists all valid report kinds.
var ReportTypes = []ReportType{
	ReportCareer,
	ReportWealth,
	ReportInDepth,
	ReportYearly,
	ReportNumerology,
	ReportGemRecommendation,
	ReportTransitSaturn,
	ReportTransitJupiter,
	ReportTransitRahuKetu,
}

// IsValid reports whether the report type is one of the nine kinds.
func (t ReportType) IsValid() bool {
	for _, known := range ReportTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Title returns the human-readable name used in PDF headers and lists.
func (t ReportType) Title() string {
	switch t {
	case ReportCareer:
		return "Career"
	case ReportWealth:
		return "Wealth"
	case ReportInDepth:
		return "In-Depth Life"
	case ReportYearly:
		return "Yearly Forecast"
	case ReportNumerology:
		return "Numerology"
	case ReportGemRecommendation:
		return "Gem Recommendation"
	case ReportTransitSaturn:
		return "Saturn Transit"
	case ReportTransitJupiter:
		return "Jupiter Transit"
	case ReportTransitRahuKetu:
		return "Rahu-Ketu Transit"
	default:
		return string(t)
	}
}

// Generation status lifecycle: generating -> complete | failed.
const (
	GenerationStatusGenerating = "generating"
	GenerationStatusComplete   = "complete"
	GenerationStatusFailed     = "failed"
)

// Language codes accepted for generation.
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// Report is a narrative artifact generated for one profile.
// Content is immutable once the status reaches complete.
type Report struct {
	ID               uuid.UUID  `db:"id"`
	ProfileID        uuid.UUID  `db:"profile_id"`
	ReportType       ReportType `db:"report_type"`
	Language         string     `db:"language"`
	Content          *string    `db:"content"`
	Summary          *string    `db:"summary"`
	ModelUsed        *string    `db:"model_used"`
	PDFObjectKey     *string    `db:"pdf_object_key"`
	PDFGeneratedAt   *time.Time `db:"pdf_generated_at"`
	IsFavorite       bool       `db:"is_favorite"`
	Year             *int       `db:"year"`
	GenerationStatus string     `db:"generation_status"`
	CreatedAt        time.Time  `db:"created_at"`
}
