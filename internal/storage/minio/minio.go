// Package minio implements storage.Backend for S3-compatible deployments
// (MinIO, and most self-hosted object stores) through the MinIO SDK.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"media-service/internal/storage"
)

const backendName = "minio"

// Config carries the endpoint and bucket for one MinIO backend.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// Backend is a MinIO implementation of storage.Backend.
// It is safe for concurrent use by multiple goroutines.
type Backend struct {
	bucket string
	client *miniogo.Client
}

// New connects to the configured endpoint and returns a Backend. The bucket
// is probed once so misconfiguration surfaces at startup, not first upload.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to reach minio endpoint: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &Backend{bucket: cfg.Bucket, client: client}, nil
}

func (b *Backend) Name() string {
	return backendName
}

func (b *Backend) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if body == nil {
		body = bytes.NewReader(nil)
	}

	_, err := b.client.PutObject(ctx, b.bucket, key, body, -1, miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put %q: %w", key, err)
	}

	return b.urlFor(key), nil
}

func (b *Backend) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	opts := miniogo.ListObjectsOptions{
		Prefix:    storage.ListPrefix(prefix),
		Recursive: true,
	}

	var objects []storage.ObjectInfo

	for obj := range b.client.ListObjects(ctx, b.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list prefix %q: %w", prefix, obj.Err)
		}

		objects = append(objects, storage.ObjectInfo{
			Key:          obj.Key,
			URL:          b.urlFor(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

func (b *Backend) DeleteOne(ctx context.Context, key string) error {
	err := b.client.RemoveObject(ctx, b.bucket, key, miniogo.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (b *Backend) DeleteByPrefix(ctx context.Context, prefix string) (*storage.PrefixDeleteResult, error) {
	objects, err := b.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := &storage.PrefixDeleteResult{}
	for _, obj := range objects {
		if err := b.DeleteOne(ctx, obj.Key); err != nil {
			result.Errors = append(result.Errors, &storage.KeyError{Key: obj.Key, Err: err})
			continue
		}
		result.Deleted++
	}

	return result, nil
}

// PresignGet returns a time-limited download URL for the object.
func (b *Backend) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := b.client.PresignedGetObject(ctx, b.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %q: %w", key, err)
	}
	return u.String(), nil
}

func (b *Backend) urlFor(key string) string {
	return b.client.EndpointURL().String() + "/" + b.bucket + "/" + key
}
