package jobs

import (
	"context"
	"time"
)

// Job is a periodic task run by the scheduler.
type Job interface {
	Name() string
	// NextRun returns the next time the job should fire, given now.
	NextRun(now time.Time) time.Time
	Run(ctx context.Context) error
}
