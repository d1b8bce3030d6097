package profile

import (
	"log/slog"

	"github.com/prabhat9478/jyotish-web/internal/ports/cache"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

// Service holds profile CRUD and chart calculation logic.
type Service struct {
	ProfileRepo repository.IProfileRepo
	PrefsRepo   repository.IPreferencesRepo
	Engine      service.IAstroEngine
	Cache       cache.Cache
	Log         *slog.Logger
}

// New creates the profile service.
func New(
	profileRepo repository.IProfileRepo,
	prefsRepo repository.IPreferencesRepo,
	engine service.IAstroEngine,
	c cache.Cache,
	log *slog.Logger,
) *Service {
	return &Service{
		ProfileRepo: profileRepo,
		PrefsRepo:   prefsRepo,
		Engine:      engine,
		Cache:       c,
		Log:         log,
	}
}
