package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
	"github.com/prabhat9478/jyotish-web/internal/ports/storage"
)

const (
	pdfMaxAttempts = 3
	pdfBackoffBase = 2 * time.Second
	pdfContentType = "application/pdf"
)

// PDFGenerationHandler renders a completed report into a PDF and stores
// the object key on the report row.
type PDFGenerationHandler struct {
	reportRepo  repository.IReportRepo
	profileRepo repository.IProfileRepo
	engine      service.IAstroEngine
	files       storage.IFileStore
	log         *slog.Logger
}

// NewPDFGenerationHandler creates the PDF job handler.
func NewPDFGenerationHandler(
	reportRepo repository.IReportRepo,
	profileRepo repository.IProfileRepo,
	engine service.IAstroEngine,
	files storage.IFileStore,
	log *slog.Logger,
) *PDFGenerationHandler {
	return &PDFGenerationHandler{
		reportRepo:  reportRepo,
		profileRepo: profileRepo,
		engine:      engine,
		files:       files,
		log:         log,
	}
}

type pdfJobPayload struct {
	ReportID uuid.UUID `json:"report_id"`
}

// Handle processes one PDF generation job. The render and upload are
// retried with exponential backoff; re-rendering an already stored PDF
// just overwrites the same object.
func (h *PDFGenerationHandler) Handle(ctx context.Context, jobType string, key string, value []byte) error {
	var payload pdfJobPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return fmt.Errorf("invalid pdf job payload: %w", domain.ErrValidation)
	}
	if payload.ReportID == uuid.Nil {
		return fmt.Errorf("pdf job has no report_id: %w", domain.ErrValidation)
	}

	report, err := h.reportRepo.GetByID(ctx, payload.ReportID)
	if err != nil {
		return fmt.Errorf("failed to load report %s: %w", payload.ReportID, err)
	}

	if report.GenerationStatus != domain.GenerationStatusComplete || report.Content == nil {
		h.log.Warn("report not ready for pdf, skipping",
			"report_id", report.ID,
			"status", report.GenerationStatus,
		)
		return fmt.Errorf("report %s has no content: %w", report.ID, domain.ErrValidation)
	}

	profile, err := h.profileRepo.GetForWorker(ctx, report.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to load profile %s: %w", report.ProfileID, err)
	}

	var lastErr error
	for attempt := 1; attempt <= pdfMaxAttempts; attempt++ {
		if attempt > 1 {
			delay := pdfBackoffBase * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if lastErr = h.renderAndStore(ctx, report, profile); lastErr == nil {
			h.log.Info("pdf generated",
				"report_id", report.ID,
				"report_type", report.ReportType,
				"attempt", attempt,
			)
			return nil
		}

		h.log.Warn("pdf generation attempt failed",
			"report_id", report.ID,
			"attempt", attempt,
			"error", lastErr,
		)
	}

	return fmt.Errorf("pdf generation failed after %d attempts: %w", pdfMaxAttempts, lastErr)
}

func (h *PDFGenerationHandler) renderAndStore(ctx context.Context, report *domain.Report, profile *domain.Profile) error {
	pdfBytes, err := h.engine.RenderPDF(ctx, service.PDFRequest{
		Title:   fmt.Sprintf("%s Report for %s", report.ReportType.Title(), profile.Name),
		Content: *report.Content,
		Author:  "Jyotish Web",
		Subject: string(report.ReportType),
	})
	if err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}

	objectKey := fmt.Sprintf("reports/%s/%s.pdf", report.ProfileID, report.ID)
	if err := h.files.PutFile(ctx, objectKey, pdfBytes, pdfContentType); err != nil {
		return fmt.Errorf("failed to upload pdf: %w", err)
	}

	if err := h.reportRepo.SetPDF(ctx, report.ID, objectKey, time.Now()); err != nil {
		return fmt.Errorf("failed to record pdf object key: %w", err)
	}

	return nil
}
