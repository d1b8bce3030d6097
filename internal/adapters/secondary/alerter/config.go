package alerter

import "time"

// Config holds the ops webhook settings. An empty URL disables alerting.
type Config struct {
	WebhookURL string        `envconfig:"WEBHOOK_URL"`
	Channel    string        `envconfig:"CHANNEL" default:"jyotish-ops"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
}
