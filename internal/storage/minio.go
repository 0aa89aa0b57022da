package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options configures the MinIO image store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ImageStore keeps machine images in a MinIO bucket and serves them by
// plain object URL.
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewImageStore creates the client and makes sure the bucket exists. A
// failed bucket check is logged, not returned, so the API can start while
// MinIO is still coming up.
func NewImageStore(ctx context.Context, opts Options, logger *slog.Logger) (*ImageStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		logger.Warn("failed to check bucket existence", "bucket", opts.Bucket, "error", err)
	} else if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			logger.Warn("failed to create bucket", "bucket", opts.Bucket, "error", err)
		} else {
			logger.Info("created bucket", "bucket", opts.Bucket)
		}
	}

	return &ImageStore{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: ObjectBaseURL(opts.Endpoint, opts.Bucket, opts.UseSSL),
	}, nil
}

// ObjectBaseURL is the prefix of every URL the store issues for bucket.
func ObjectBaseURL(endpoint, bucket string, useSSL bool) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", scheme, strings.TrimSuffix(endpoint, "/"), bucket)
}

// PutObject uploads body under key and returns its URL.
func (s *ImageStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.baseURL + key, nil
}

// RemoveObject deletes the object behind url. URLs outside the bucket are
// ignored.
func (s *ImageStore) RemoveObject(ctx context.Context, url string) error {
	key, ok := KeyFromURL(s.baseURL, url)
	if !ok {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// KeyFromURL extracts the object key from a URL issued under baseURL.
func KeyFromURL(baseURL, url string) (string, bool) {
	key, ok := strings.CutPrefix(url, baseURL)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Ping reports whether the bucket is reachable.
func (s *ImageStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
