package app

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	server "github.com/prabhat9478/jyotish-web/internal/adapters/primary/http"
	alerterAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/secondary/alerter"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/astroengine"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/authapi"
	kafkaAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/secondary/kafka"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/openrouter"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/prabhat9478/jyotish-web/internal/adapters/secondary/storage/redis"
	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/storage/s3"
	"github.com/prabhat9478/jyotish-web/internal/pkg/logger"
)

type Config struct {
	Postgres    *pg.Config             `envconfig:"POSTGRES"`
	Redis       *redisAdapter.Config   `envconfig:"REDIS"`
	S3          *s3.Config             `envconfig:"S3"`
	Log         *logger.Config         `envconfig:"LOG"`
	Server      *server.Config         `envconfig:"APISERVER"`
	AstroEngine *astroengine.Config    `envconfig:"ASTRO_ENGINE"`
	OpenRouter  *openrouter.Config     `envconfig:"OPENROUTER"`
	Auth        *authapi.Config        `envconfig:"AUTH"`
	Kafka       *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter     *alerterAdapter.Config `envconfig:"ALERTER"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
