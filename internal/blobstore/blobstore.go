// Package blobstore holds the client for the object store that keeps the raw
// audio bytes referenced by track file paths. The data operations never read
// or write objects; the client exists so startup can verify the configured
// bucket is reachable. Object cleanup after track deletion is an out-of-band
// maintenance concern.
package blobstore

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config carries the optional object-store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Configured reports whether enough settings are present to build a client.
func (c Config) Configured() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// Store wraps an S3-compatible client bound to one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New builds a client for the configured endpoint and bucket.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect blob store: %w", err)
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Ping verifies the configured bucket exists and is reachable.
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}
