package queue

import (
	"context"

	"github.com/google/uuid"
)

// Job kinds understood by the worker consumer.
const (
	JobGeneratePDF    = "generate-pdf"
	JobGenerateAlerts = "generate-alerts"
)

// IJobQueue submits background jobs with at-least-once delivery.
// Handlers must be idempotent; regenerating a PDF or re-scanning alerts
// twice costs only wasted work.
type IJobQueue interface {
	EnqueuePDFGeneration(ctx context.Context, reportID uuid.UUID) error
	EnqueueAlertScan(ctx context.Context, profileID uuid.UUID) error
}

// MessageHandler processes one consumed job message.
type MessageHandler interface {
	Handle(ctx context.Context, jobType string, key string, value []byte) error
}
