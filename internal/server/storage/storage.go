// Package storage keeps uploaded resumes in an S3-compatible object store.
// Two backends are available: the AWS SDK (S3Store) and the MinIO client
// (MinioStore); both talk to any S3-compatible endpoint.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/google/uuid"
)

// ObjectStore is the object storage used for resumes.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// PresignGet returns a time-limited download URL. filename, when set,
	// is suggested to the browser via Content-Disposition.
	PresignGet(ctx context.Context, key string, ttl time.Duration, filename string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewResumeKey returns a fresh object key of the form
// resumes/yyyy/mm/dd/<uuid>.
func NewResumeKey(now time.Time) string {
	return fmt.Sprintf("resumes/%04d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), uuid.New())
}

// New builds the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3Store(ctx, cfg)
	case config.StorageMinio:
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func contentDisposition(filename string) string {
	if filename == "" {
		return ""
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

// splitEndpoint turns "http://host:9000/" into ("host:9000", false).
func splitEndpoint(endpoint string) (string, bool, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("bad storage endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("bad storage endpoint %q: missing host", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
