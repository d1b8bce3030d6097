package authapi

import "time"

// Config holds auth backend settings. AnonKey is the project API key the
// auth backend expects alongside the user's bearer token.
type Config struct {
	BaseURL  string        `envconfig:"BASE_URL" required:"true"`
	AnonKey  string        `envconfig:"ANON_KEY" required:"true"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}
