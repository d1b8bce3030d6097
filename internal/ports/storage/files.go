package storage

import (
	"context"
	"time"
)

// IFileStore is the object store holding generated report PDFs.
type IFileStore interface {
	PutFile(ctx context.Context, path string, data []byte, contentType string) error
	GetFile(ctx context.Context, path string) ([]byte, error)
	GetPresignedURL(ctx context.Context, path string, expires time.Duration) (string, error)
}
