package service

import "context"

// IAlerterService sends operational alerts (job failures and the like)
// to an external channel.
type IAlerterService interface {
	SendAlert(ctx context.Context, message string) error
}
