package openrouter

import "time"

// Config holds OpenRouter connection settings.
type Config struct {
	BaseURL        string        `envconfig:"BASE_URL" default:"https://openrouter.ai/api/v1"`
	APIKey         string        `envconfig:"API_KEY" required:"true"`
	EmbeddingModel string        `envconfig:"EMBEDDING_MODEL" default:"openai/text-embedding-3-small"`
	Timeout        time.Duration `envconfig:"TIMEOUT" default:"60s"`
	// Referer and Title are forwarded as attribution headers; OpenRouter
	// uses them for per-app usage dashboards.
	Referer string `envconfig:"REFERER"`
	Title   string `envconfig:"TITLE" default:"Jyotish Web"`
}
