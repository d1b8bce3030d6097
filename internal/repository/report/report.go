package reportRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/persistence"
	ports "github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

type reportColumns struct {
	TableName        string
	ID               string
	ProfileID        string
	ReportType       string
	Language         string
	Content          string
	Summary          string
	ModelUsed        string
	PDFObjectKey     string
	PDFGeneratedAt   string
	IsFavorite       string
	Year             string
	GenerationStatus string
	CreatedAt        string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns reportColumns
}

// New creates the report repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IReportRepo {
	cols := reportColumns{
		TableName:        "reports",
		ID:               "id",
		ProfileID:        "profile_id",
		ReportType:       "report_type",
		Language:         "language",
		Content:          "content",
		Summary:          "summary",
		ModelUsed:        "model_used",
		PDFObjectKey:     "pdf_object_key",
		PDFGeneratedAt:   "pdf_generated_at",
		IsFavorite:       "is_favorite",
		Year:             "year",
		GenerationStatus: "generation_status",
		CreatedAt:        "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.ProfileID,
		r.columns.ReportType,
		r.columns.Language,
		r.columns.Content,
		r.columns.Summary,
		r.columns.ModelUsed,
		r.columns.PDFObjectKey,
		r.columns.PDFGeneratedAt,
		r.columns.IsFavorite,
		r.columns.Year,
		r.columns.GenerationStatus,
		r.columns.CreatedAt)
}

// Create inserts a report row, normally in the generating state.
func (r *Repository) Create(ctx context.Context, report *domain.Report) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		report.ID,
		report.ProfileID,
		report.ReportType,
		report.Language,
		report.Content,
		report.Summary,
		report.ModelUsed,
		report.PDFObjectKey,
		report.PDFGeneratedAt,
		report.IsFavorite,
		report.Year,
		report.GenerationStatus,
		report.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create report",
			"error", err,
			"profile_id", report.ProfileID,
			"report_type", report.ReportType)
		return fmt.Errorf("failed to create report: %w", err)
	}
	r.Log.Debug("report created successfully",
		"report_id", report.ID,
		"profile_id", report.ProfileID,
		"report_type", report.ReportType)
	return nil
}

// GetByID loads a report.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &report, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("report not found", "report_id", id)
			return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get report by id",
			"error", err,
			"report_id", id)
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}
	return &report, nil
}

// ListByProfile returns all reports for a profile, newest first.
func (r *Repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Report, error) {
	var reports []*domain.Report
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ProfileID,
		r.columns.CreatedAt)
	err := r.db.Select(ctx, &reports, query, profileID)
	if err != nil {
		r.Log.Error("failed to list reports",
			"error", err,
			"profile_id", profileID)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	r.Log.Debug("reports retrieved successfully",
		"profile_id", profileID,
		"count", len(reports))
	return reports, nil
}

// Complete stores the final content and flips the status to complete.
// Only a report still in the generating state can be completed.
func (r *Repository) Complete(ctx context.Context, id uuid.UUID, content string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s = $4`,
		r.columns.TableName,
		r.columns.Content,
		r.columns.GenerationStatus,
		r.columns.ID,
		r.columns.GenerationStatus)
	affected, err := r.db.ExecWithResult(ctx, query,
		id, content, domain.GenerationStatusComplete, domain.GenerationStatusGenerating)
	if err != nil {
		r.Log.Error("failed to complete report",
			"error", err,
			"report_id", id)
		return fmt.Errorf("failed to complete report: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("report not in generating state", "report_id", id)
		return fmt.Errorf("report %s not in generating state: %w", id, domain.ErrNotFound)
	}
	r.Log.Debug("report completed", "report_id", id)
	return nil
}

// MarkFailed flips a generating report to failed.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s = $3`,
		r.columns.TableName,
		r.columns.GenerationStatus,
		r.columns.ID,
		r.columns.GenerationStatus)
	_, err := r.db.ExecWithResult(ctx, query,
		id, domain.GenerationStatusFailed, domain.GenerationStatusGenerating)
	if err != nil {
		r.Log.Error("failed to mark report failed",
			"error", err,
			"report_id", id)
		return fmt.Errorf("failed to mark report failed: %w", err)
	}
	r.Log.Debug("report marked failed", "report_id", id)
	return nil
}

// SetPDF records the rendered PDF object key.
func (r *Repository) SetPDF(ctx context.Context, id uuid.UUID, objectKey string, generatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.PDFObjectKey,
		r.columns.PDFGeneratedAt,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query, id, objectKey, generatedAt)
	if err != nil {
		r.Log.Error("failed to set report pdf",
			"error", err,
			"report_id", id)
		return fmt.Errorf("failed to set report pdf: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("report not found for pdf update", "report_id", id)
		return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	r.Log.Debug("report pdf recorded", "report_id", id, "object_key", objectKey)
	return nil
}
