package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"schoolhub_backend/internal/config"
)

// Storage abstracts where uploaded chat files live.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the file.
	GetURL(ctx context.Context, path string) (string, error)

	// GetSignedURL returns a temporary signed URL for private files.
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// NewStorage builds the backend named in the configuration.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
