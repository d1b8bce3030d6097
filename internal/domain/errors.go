package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the controller boundary.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrNotFound covers both "absent" and "not owned by caller" so that
	// existence of foreign resources is never leaked.
	ErrNotFound    = errors.New("not found")
	ErrUpstream    = errors.New("upstream service error")
	ErrPersistence = errors.New("persistence error")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError carries enough context (endpoint, status) for the caller
// to distinguish transient from permanent failures.
type UpstreamError struct {
	Service  string
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error [endpoint=%s, status=%d]: %s", e.Service, e.Endpoint, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// Transient reports whether the upstream failure is likely retryable.
func (e *UpstreamError) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}
