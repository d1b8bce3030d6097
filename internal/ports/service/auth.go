package service

import (
	"context"

	"github.com/google/uuid"
)

// IAuthVerifier validates a bearer token against the backend auth
// service and resolves the owning user. Token issuance is out of scope.
type IAuthVerifier interface {
	VerifyToken(ctx context.Context, token string) (uuid.UUID, error)
}
