package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/prabhat9478/jyotish-web/internal/ports/storage"
)

// Client wraps minio.Client; holds generated report PDFs.
type Client struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// NewClient creates a file store over one bucket.
func NewClient(client *minio.Client, bucket string, log *slog.Logger) storage.IFileStore {
	return &Client{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

// PutFile uploads an object, overwriting any existing one at path.
func (c *Client) PutFile(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, c.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", path, err)
	}

	c.log.Debug("object uploaded", "bucket", c.bucket, "path", path, "size", len(data))
	return nil
}

// GetFile downloads an object.
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, error) {
	object, err := c.client.GetObject(ctx, c.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}

	return data, nil
}

// GetPresignedURL returns a temporary download URL for an object.
func (c *Client) GetPresignedURL(ctx context.Context, path string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = 5 * time.Minute
	}

	url, err := c.client.PresignedGetObject(ctx, c.bucket, path, expires, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", path, err)
	}

	return url.String(), nil
}
