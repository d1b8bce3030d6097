package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	server "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http"
	alertController "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/controllers/alert"
	chatController "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/controllers/chat"
	healthcheckController "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/controllers/healthcheck"
	preferencesController "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/controllers/preferences"
	profileController "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/controllers/profile"
	reportController "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/controllers/report"
	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/middlewares"
	kafkaConsumerAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/prabhat9478/jyotish-web/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/secondary/alerter"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/astroengine"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/authapi"
	kafkaAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/secondary/kafka"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/openrouter"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/secondary/storage/redis"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/storage/s3"
	"github.com/prabhat9478/jyotish-web/internal/ports/cache"
	"github.com/prabhat9478/jyotish-web/internal/ports/queue"
	"github.com/prabhat9478/jyotish-web/internal/ports/repository"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
	"github.com/prabhat9478/jyotish-web/internal/ports/storage"
	alertRepo "github.com/prabhat9478/jyotish-web/internal/repository/alert"
	chatRepo "github.com/prabhat9478/jyotish-web/internal/repository/chat"
	chunkRepo "github.com/prabhat9478/jyotish-web/internal/repository/chunk"
	preferencesRepo "github.com/prabhat9478/jyotish-web/internal/repository/preferences"
	profileRepo "github.com/prabhat9478/jyotish-web/internal/repository/profile"
	reportRepo "github.com/prabhat9478/jyotish-web/internal/repository/report"
	alerterService "github.com/prabhat9478/jyotish-web/internal/services/alerter"
	jobScheduler "github.com/prabhat9478/jyotish-web/internal/services/jobs"
	alertUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/alert"
	chatUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/chat"
	preferencesUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/preferences"
	profileUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/profile"
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"
	reportUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/report"
)

type Dependencies struct {
	DB            *sqlx.DB
	HTTPServer    *http.Server
	KafkaProducer *kafkaAdapter.Producer
	KafkaConsumer *kafkaConsumerAdapter.Consumer
	Cache         cache.Cache
	JobScheduler  *jobScheduler.Scheduler
}

func (a *App) initDependencies() (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)

	external, err := a.initExternalServices()
	if err != nil {
		return nil, fmt.Errorf("failed to init external services: %w", err)
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka producer: %w", err)
	}

	usecases := a.initUsecases(repos, external, producer)

	consumer, err := a.initConsumer(repos, external)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka consumer: %w", err)
	}

	httpServer := a.initHTTP(db, repos, external, usecases)
	scheduler := a.initJobScheduler(external.Alerter, usecases.Alerts)

	return &Dependencies{
		DB:            db,
		HTTPServer:    httpServer,
		KafkaProducer: producer,
		KafkaConsumer: consumer,
		Cache:         external.Cache,
		JobScheduler:  scheduler,
	}, nil
}

type repositories struct {
	Profile     repository.IProfileRepo
	Report      repository.IReportRepo
	Chunk       repository.IChunkRepo
	Chat        repository.IChatRepo
	Alert       repository.IAlertRepo
	Preferences repository.IPreferencesRepo
}

func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		Profile:     profileRepo.New(persistenceLayer, a.Log),
		Report:      reportRepo.New(persistenceLayer, a.Log),
		Chunk:       chunkRepo.New(persistenceLayer, a.Log),
		Chat:        chatRepo.New(persistenceLayer, a.Log),
		Alert:       alertRepo.New(persistenceLayer, a.Log),
		Preferences: preferencesRepo.New(persistenceLayer, a.Log),
	}
}

type externalServices struct {
	Engine    service.IAstroEngine
	LLM       *openrouter.Client
	Auth      service.IAuthVerifier
	Cache     cache.Cache
	FileStore storage.IFileStore
	Alerter   service.IAlerterService
}

func (a *App) initExternalServices() (*externalServices, error) {
	services := &externalServices{}

	services.Engine = astroengine.NewClient(a.Cfg.AstroEngine, a.Log)
	services.LLM = openrouter.NewClient(a.Cfg.OpenRouter, a.Log)

	redisClient, err := a.Cfg.Redis.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	services.Cache = redisAdapter.NewClient(redisClient)
	a.Log.Info("redis connected successfully")

	services.Auth = authapi.NewClient(a.Cfg.Auth, services.Cache, a.Log)

	minioClient, err := a.Cfg.S3.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}
	services.FileStore = s3.NewClient(minioClient, a.Cfg.S3.Bucket, a.Log)
	a.Log.Info("object storage connected successfully")

	// Ops alerter is optional; a nil client disables it.
	if a.Cfg.Alerter != nil {
		alerterClient := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
		if alerterClient != nil {
			services.Alerter = alerterService.New(alerterClient)
		}
	}

	return services, nil
}

type usecaseSet struct {
	Profiles    *profileUsecase.Service
	Reports     *reportUsecase.Service
	Chat        *chatUsecase.Service
	Alerts      *alertUsecase.Service
	Preferences *preferencesUsecase.Service
	RAG         *rag.Service
}

func (a *App) initUsecases(
	repos *repositories,
	external *externalServices,
	producer *kafkaAdapter.Producer,
) *usecaseSet {
	ragService := rag.New(repos.Chunk, external.LLM, a.Log)

	return &usecaseSet{
		Profiles:    profileUsecase.New(repos.Profile, repos.Preferences, external.Engine, external.Cache, a.Log),
		Reports:     reportUsecase.New(repos.Report, repos.Profile, external.LLM, ragService, producer, a.Log),
		Chat:        chatUsecase.New(repos.Chat, repos.Profile, ragService, external.LLM, a.Log),
		Alerts:      alertUsecase.New(repos.Alert, repos.Profile, producer, a.Log),
		Preferences: preferencesUsecase.New(repos.Preferences, a.Log),
		RAG:         ragService,
	}
}

func (a *App) initConsumer(
	repos *repositories,
	external *externalServices,
) (*kafkaConsumerAdapter.Consumer, error) {
	pdfHandler := kafkaHandlers.NewPDFGenerationHandler(
		repos.Report,
		repos.Profile,
		external.Engine,
		external.FileStore,
		a.Log,
	)
	alertHandler := kafkaHandlers.NewAlertGenerationHandler(
		repos.Profile,
		repos.Preferences,
		repos.Alert,
		external.Engine,
		a.Log,
	)

	handlers := map[string]queue.MessageHandler{
		queue.JobGeneratePDF:    pdfHandler,
		queue.JobGenerateAlerts: alertHandler,
	}

	return kafkaConsumerAdapter.NewConsumer(a.Cfg.Kafka, handlers, a.Log)
}

func (a *App) initHTTP(
	db *sqlx.DB,
	repos *repositories,
	external *externalServices,
	usecases *usecaseSet,
) *http.Server {
	var auth gin.HandlerFunc = middlewares.RequireAuth(external.Auth, a.Log)

	return server.NewHTTPServer(a.Cfg.Server, a.Log,
		healthcheckController.New(db, a.Log),
		profileController.New(usecases.Profiles, auth, a.Log),
		reportController.New(usecases.Reports, external.FileStore, auth, a.Log),
		chatController.New(usecases.Chat, auth, a.Log),
		alertController.New(usecases.Alerts, auth, a.Log),
		preferencesController.New(usecases.Preferences, auth, a.Log),
	)
}

func (a *App) initJobScheduler(
	alerter service.IAlerterService,
	alerts *alertUsecase.Service,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerter)
	scheduler.Register(jobScheduler.NewAlertScanFanout(alerts, a.Log))
	return scheduler
}
