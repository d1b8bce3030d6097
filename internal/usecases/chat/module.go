package chat

import (
	"log/slog"

	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"
)

type Service struct {
	ChatRepo    repository.IChatRepo
	ProfileRepo repository.IProfileRepo
	RAG         *rag.Service
	Completer   service.IChatCompleter
	Log         *slog.Logger
}

func New(
	chatRepo repository.IChatRepo,
	profileRepo repository.IProfileRepo,
	ragService *rag.Service,
	completer service.IChatCompleter,
	log *slog.Logger,
) *Service {
	return &Service{
		ChatRepo:    chatRepo,
		ProfileRepo: profileRepo,
		RAG:         ragService,
		Completer:   completer,
		Log:         log,
	}
}
