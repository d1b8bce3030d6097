package authapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/cache"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (m *memCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func newTestClient(t *testing.T, c cache.Cache, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Config{
		BaseURL:  srv.URL,
		AnonKey:  "anon-key",
		Timeout:  5 * time.Second,
		CacheTTL: 5 * time.Minute,
	}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestVerifyTokenResolvesAndCaches(t *testing.T) {
	userID := uuid.New()
	requests := 0
	c := newMemCache()
	client := newTestClient(t, c, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("authorization = %q", auth)
		}
		if key := r.Header.Get("apikey"); key != "anon-key" {
			t.Errorf("apikey = %q", key)
		}
		io.WriteString(w, `{"id":"`+userID.String()+`"}`)
	})

	got, err := client.VerifyToken(context.Background(), "tok-123")
	if err != nil {
		t.Fatal(err)
	}
	if got != userID {
		t.Errorf("user id = %s, want %s", got, userID)
	}

	// Second call served from cache.
	if _, err := client.VerifyToken(context.Background(), "tok-123"); err != nil {
		t.Fatal(err)
	}
	if requests != 1 {
		t.Errorf("backend requests = %d, want 1", requests)
	}
}

func TestVerifyTokenNeverCachesRawToken(t *testing.T) {
	userID := uuid.New()
	c := newMemCache()
	client := newTestClient(t, c, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"`+userID.String()+`"}`)
	})

	const token = "super-secret-jwt"
	if _, err := client.VerifyToken(context.Background(), token); err != nil {
		t.Fatal(err)
	}

	for key := range c.data {
		if strings.Contains(key, token) {
			t.Errorf("raw token leaked into cache key: %q", key)
		}
	}
	if len(c.data) != 1 {
		t.Errorf("cache entries = %d, want 1", len(c.data))
	}
}

func TestVerifyTokenRejected(t *testing.T) {
	client := newTestClient(t, newMemCache(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.VerifyToken(context.Background(), "expired")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyTokenEmpty(t *testing.T) {
	client := newTestClient(t, newMemCache(), func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty token")
	})

	_, err := client.VerifyToken(context.Background(), "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyTokenBackendDown(t *testing.T) {
	client := newTestClient(t, newMemCache(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.VerifyToken(context.Background(), "tok")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		t.Error("backend outage must not read as invalid token")
	}
}
