package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/queue"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
)

// Service exposes transit alerts to users and fans out scan jobs.
type Service struct {
	AlertRepo   repository.IAlertRepo
	ProfileRepo repository.IProfileRepo
	JobQueue    queue.IJobQueue
	Log         *slog.Logger
}

func New(
	alertRepo repository.IAlertRepo,
	profileRepo repository.IProfileRepo,
	jobQueue queue.IJobQueue,
	log *slog.Logger,
) *Service {
	return &Service{
		AlertRepo:   alertRepo,
		ProfileRepo: profileRepo,
		JobQueue:    jobQueue,
		Log:         log,
	}
}

// List returns a profile's alerts, newest first.
func (s *Service) List(ctx context.Context, userID, profileID uuid.UUID) ([]*domain.TransitAlert, error) {
	if _, err := s.ProfileRepo.GetByID(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return s.AlertRepo.ListByProfile(ctx, profileID)
}

// MarkRead flips the read flag after checking the alert belongs to one
// of the caller's profiles.
func (s *Service) MarkRead(ctx context.Context, userID, alertID uuid.UUID, isRead bool) error {
	alert, err := s.AlertRepo.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if _, err := s.ProfileRepo.GetByID(ctx, userID, alert.ProfileID); err != nil {
		return fmt.Errorf("alert %s: %w", alertID, domain.ErrForbidden)
	}
	return s.AlertRepo.SetRead(ctx, alertID, isRead)
}

// EnqueueScan submits a scan job for one profile, on demand.
func (s *Service) EnqueueScan(ctx context.Context, userID, profileID uuid.UUID) error {
	if _, err := s.ProfileRepo.GetByID(ctx, userID, profileID); err != nil {
		return err
	}
	return s.JobQueue.EnqueueAlertScan(ctx, profileID)
}

// EnqueueScanAll fans out one scan job per active profile with a chart.
// Called by the daily scheduler; enqueue failures are logged so one bad
// profile does not stop the sweep.
func (s *Service) EnqueueScanAll(ctx context.Context) (int, error) {
	profiles, err := s.ProfileRepo.ListActiveWithChart(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles for alert scan: %w", err)
	}

	enqueued := 0
	for _, profile := range profiles {
		if err := s.JobQueue.EnqueueAlertScan(ctx, profile.ID); err != nil {
			s.Log.Error("failed to enqueue alert scan",
				"error", err,
				"profile_id", profile.ID,
			)
			continue
		}
		enqueued++
	}

	s.Log.Info("alert scan fan-out complete",
		"profiles", len(profiles),
		"enqueued", enqueued,
	)
	return enqueued, nil
}
