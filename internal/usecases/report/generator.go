package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// GenerateRequest describes one report generation.
type GenerateRequest struct {
	UserID     uuid.UUID
	ProfileID  uuid.UUID
	ReportType domain.ReportType
	Language   string
	Model      string
}

func (r *GenerateRequest) validate() error {
	if !r.ReportType.IsValid() {
		return domain.NewValidationError("report_type", "unknown report type")
	}
	switch r.Language {
	case domain.LanguageEnglish, domain.LanguageHindi:
	default:
		return domain.NewValidationError("language", "must be en or hi")
	}
	return nil
}

// Start validates the request, creates the report row in the generating
// state and opens the completion stream. On any failure after the row
// exists the report is marked failed so it never hangs in generating.
func (s *Service) Start(ctx context.Context, req GenerateRequest) (*domain.Report, io.ReadCloser, error) {
	if err := req.validate(); err != nil {
		return nil, nil, err
	}
	if req.Model == "" {
		req.Model = domain.DefaultChatModel
	}

	profile, err := s.ProfileRepo.GetByID(ctx, req.UserID, req.ProfileID)
	if err != nil {
		return nil, nil, err
	}
	chart, err := profile.Chart()
	if err != nil {
		return nil, nil, fmt.Errorf("profile has no calculated chart: %w", domain.ErrValidation)
	}

	prompt, err := BuildPrompt(req.ReportType, chart, req.Language)
	if err != nil {
		return nil, nil, err
	}

	model := req.Model
	year := time.Now().Year()
	report := &domain.Report{
		ID:               uuid.New(),
		ProfileID:        req.ProfileID,
		ReportType:       req.ReportType,
		Language:         req.Language,
		ModelUsed:        &model,
		GenerationStatus: domain.GenerationStatusGenerating,
		CreatedAt:        time.Now(),
	}
	if req.ReportType == domain.ReportYearly {
		report.Year = &year
	}
	if err := s.ReportRepo.Create(ctx, report); err != nil {
		return nil, nil, err
	}

	messages := []domain.ConversationTurn{
		{Role: domain.RoleSystem, Content: SystemPrompt(req.Language)},
		{Role: domain.RoleUser, Content: prompt},
	}

	stream, err := s.Completer.StreamCompletion(ctx, req.Model, messages)
	if err != nil {
		s.Log.Error("failed to start report stream",
			"error", err,
			"report_id", report.ID,
			"report_type", req.ReportType,
		)
		s.markFailed(report.ID)
		return nil, nil, err
	}

	s.Log.Info("report generation started",
		"report_id", report.ID,
		"profile_id", req.ProfileID,
		"report_type", req.ReportType,
		"model", req.Model,
	)
	return report, stream, nil
}

// Finalize persists the accumulated content, indexes it for retrieval
// and enqueues PDF rendering. Indexing and PDF failures are logged but
// do not fail the report: the content is already durable.
func (s *Service) Finalize(ctx context.Context, report *domain.Report, content string) error {
	if err := s.ReportRepo.Complete(ctx, report.ID, content); err != nil {
		return fmt.Errorf("failed to complete report: %w", err)
	}
	report.Content = &content
	report.GenerationStatus = domain.GenerationStatusComplete

	if err := s.RAG.IndexReport(ctx, report); err != nil {
		s.Log.Error("failed to index report",
			"error", err,
			"report_id", report.ID,
		)
	}

	if err := s.JobQueue.EnqueuePDFGeneration(ctx, report.ID); err != nil {
		s.Log.Error("failed to enqueue pdf generation",
			"error", err,
			"report_id", report.ID,
		)
	}

	s.Log.Info("report completed",
		"report_id", report.ID,
		"profile_id", report.ProfileID,
		"content_len", len(content),
	)
	return nil
}

// Fail transitions a generating report to failed.
func (s *Service) Fail(ctx context.Context, reportID uuid.UUID) {
	if err := s.ReportRepo.MarkFailed(ctx, reportID); err != nil {
		s.Log.Error("failed to mark report failed",
			"error", err,
			"report_id", reportID,
		)
	}
}

// markFailed runs on a short detached context; the request context may
// already be gone when the stream never opened.
func (s *Service) markFailed(reportID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Fail(ctx, reportID)
}

// Get loads a report after verifying the caller owns its profile.
func (s *Service) Get(ctx context.Context, userID, profileID, reportID uuid.UUID) (*domain.Report, error) {
	if _, err := s.ProfileRepo.GetByID(ctx, userID, profileID); err != nil {
		return nil, err
	}
	report, err := s.ReportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.ProfileID != profileID {
		return nil, fmt.Errorf("report %s: %w", reportID, domain.ErrNotFound)
	}
	return report, nil
}

// List returns a profile's reports after an ownership check.
func (s *Service) List(ctx context.Context, userID, profileID uuid.UUID) ([]*domain.Report, error) {
	if _, err := s.ProfileRepo.GetByID(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return s.ReportRepo.ListByProfile(ctx, profileID)
}

// Sections splits a completed report into viewer sections.
func (s *Service) Sections(ctx context.Context, userID, profileID, reportID uuid.UUID) ([]Section, error) {
	report, err := s.Get(ctx, userID, profileID, reportID)
	if err != nil {
		return nil, err
	}
	if report.GenerationStatus != domain.GenerationStatusComplete || report.Content == nil {
		return nil, fmt.Errorf("report %s is not complete: %w", reportID, domain.ErrValidation)
	}
	return SplitSections(*report.Content), nil
}
