package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores objects through the MinIO client.
type MinioStore struct {
	bucket string
	client *minio.Client
}

func newMinioClient(cfg *config.Config) (*minio.Client, error) {
	host, secure, err := splitEndpoint(cfg.S3BaseEndpoint)
	if err != nil {
		return nil, err
	}
	return minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3RootUser, cfg.S3RootPassword, ""),
		Secure: secure,
		Region: cfg.S3Region,
	})
}

// NewMinioStore connects to cfg's endpoint and creates the bucket if it
// does not exist yet.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := newMinioClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", cfg.S3Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.S3Bucket, err)
		}
	}

	return &MinioStore{bucket: cfg.S3Bucket, client: client}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("error uploading %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) PresignGet(ctx context.Context, key string, ttl time.Duration, filename string) (string, error) {
	params := url.Values{}
	if cd := contentDisposition(filename); cd != "" {
		params.Set("response-content-disposition", cd)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("error presigning %s: %w", key, err)
	}
	return u.String(), nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("error deleting %s: %w", key, err)
	}
	return nil
}
