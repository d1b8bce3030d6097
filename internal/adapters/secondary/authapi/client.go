package authapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/cache"
)

const pathUser = "/auth/v1/user"

// Client verifies bearer tokens against the auth backend. Verified
// tokens are cached briefly so each request does not cost a round trip.
type Client struct {
	cfg        *Config
	cache      cache.Cache
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient creates a new auth verifier.
func NewClient(cfg *Config, c cache.Cache, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:   cfg,
		cache: c,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

// cacheKey hashes the token; raw tokens never land in the cache.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}

type userResponse struct {
	ID string `json:"id"`
}

// VerifyToken resolves a bearer token to the owning user ID.
func (c *Client) VerifyToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, domain.ErrUnauthorized
	}

	key := cacheKey(token)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		userID, parseErr := uuid.Parse(cached)
		if parseErr == nil {
			return userID, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.Log.Warn("auth cache lookup failed", "error", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + pathUser
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.cfg.AnonKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to execute auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return uuid.Nil, domain.ErrUnauthorized
	default:
		return uuid.Nil, &domain.UpstreamError{
			Service:  "auth backend",
			Endpoint: pathUser,
			Status:   resp.StatusCode,
			Body:     string(body[:min(len(body), 500)]),
		}
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse auth response: %w", err)
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth backend returned invalid user id: %w", err)
	}

	if err := c.cache.Set(ctx, key, userID.String(), c.cfg.CacheTTL); err != nil {
		c.Log.Warn("auth cache store failed", "error", err)
	}

	return userID, nil
}
