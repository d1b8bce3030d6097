package report

import (
	"log/slog"

	"github.com/prabhat9478/jyotish-web/internal/ports/queue"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"
)

// Service orchestrates report generation: prompt rendering, streaming
// completion, indexing and PDF enqueueing.
type Service struct {
	ReportRepo  repository.IReportRepo
	ProfileRepo repository.IProfileRepo
	Completer   service.IChatCompleter
	RAG         *rag.Service
	JobQueue    queue.IJobQueue
	Log         *slog.Logger
}

// New creates the report generation service.
func New(
	reportRepo repository.IReportRepo,
	profileRepo repository.IProfileRepo,
	completer service.IChatCompleter,
	ragService *rag.Service,
	jobQueue queue.IJobQueue,
	log *slog.Logger,
) *Service {
	return &Service{
		ReportRepo:  reportRepo,
		ProfileRepo: profileRepo,
		Completer:   completer,
		RAG:         ragService,
		JobQueue:    jobQueue,
		Log:         log,
	}
}
