package alerter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client posts operational alerts to a webhook endpoint.
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	log        *slog.Logger
}

// NewClient creates a new webhook alert client. Returns nil when no
// webhook URL is configured; callers treat a nil client as disabled.
func NewClient(cfg *Config, log *slog.Logger) *Client {
	if cfg == nil || cfg.WebhookURL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type webhookPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// SendAlert posts a message to the ops webhook.
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.HTTPClient == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	payload := webhookPayload{
		Channel: c.cfg.Channel,
		Text:    message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Warn("failed to send alert", "error", err)
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("alert webhook returned non-2xx status", "status_code", resp.StatusCode)
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	c.log.Debug("alert sent successfully", "channel", c.cfg.Channel)

	return nil
}
