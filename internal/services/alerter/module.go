package alerter

import (
	"context"
	"fmt"

	"github.com/prabhat9478/jyotish-web/internal/adapters/secondary/alerter"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

// Service implements IAlerterService over the webhook client.
type Service struct {
	client *alerter.Client
}

// New creates a new alerting service.
func New(client *alerter.Client) service.IAlerterService {
	return &Service{
		client: client,
	}
}

// SendAlert delivers an operational alert.
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	return s.client.SendAlert(ctx, message)
}
