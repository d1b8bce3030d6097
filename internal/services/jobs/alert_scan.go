package jobs

import (
	"context"
	"log/slog"
	"time"

	alertUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/alert"
)

const alertScanName = "daily-alert-scan"

// AlertScanFanout enqueues a transit scan for every active charted
// profile, every day at 06:00 IST.
type AlertScanFanout struct {
	alertService *alertUsecase.Service
	log          *slog.Logger
	location     *time.Location
}

func NewAlertScanFanout(alertService *alertUsecase.Service, log *slog.Logger) *AlertScanFanout {
	location, _ := time.LoadLocation("Asia/Kolkata")
	if location == nil {
		location = time.UTC
	}

	return &AlertScanFanout{
		alertService: alertService,
		log:          log,
		location:     location,
	}
}

func (j *AlertScanFanout) Name() string {
	return alertScanName
}

func (j *AlertScanFanout) NextRun(now time.Time) time.Time {
	local := now.In(j.location)

	next := time.Date(local.Year(), local.Month(), local.Day(), 6, 0, 0, 0, j.location)
	if next.Before(local) || next.Equal(local) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (j *AlertScanFanout) Run(ctx context.Context) error {
	enqueued, err := j.alertService.EnqueueScanAll(ctx)
	if err != nil {
		return err
	}

	j.log.Info("daily alert scan fan-out finished", "enqueued", enqueued)
	return nil
}
