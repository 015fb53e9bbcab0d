// Package s3 implements storage.Backend on top of an S3 bucket using the
// AWS SDK. Listing paginates with continuation tokens; deletes are issued
// object by object because S3 offers no recursive delete primitive.
package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"

	"media-service/internal/storage"
)

const (
	backendName  = "s3"
	listPageSize = 1000
)

// Config carries the credentials and bucket for one S3 backend.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Backend is an S3 implementation of storage.Backend.
type Backend struct {
	bucket string
	region string
	svc    *awss3.S3
}

// New creates an S3 backend from static credentials.
func New(cfg Config) (*Backend, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Backend{
		bucket: cfg.Bucket,
		region: cfg.Region,
		svc:    awss3.New(sess),
	}, nil
}

func (b *Backend) Name() string {
	return backendName
}

func (b *Backend) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	input := &awss3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	if body != nil {
		input.Body = aws.ReadSeekCloser(body)
	}

	if _, err := b.svc.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put %q: %w", key, err)
	}

	return b.urlFor(key), nil
}

func (b *Backend) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	keyPrefix := storage.ListPrefix(prefix)

	var objects []storage.ObjectInfo
	var nextToken *string

	for {
		input := &awss3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			Prefix:            aws.String(keyPrefix),
			MaxKeys:           aws.Int64(listPageSize),
			ContinuationToken: nextToken,
		}

		resp, err := b.svc.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list prefix %q: %w", prefix, err)
		}

		for _, obj := range resp.Contents {
			if *obj.Key == keyPrefix {
				continue
			}

			objects = append(objects, storage.ObjectInfo{
				Key:          *obj.Key,
				URL:          b.urlFor(*obj.Key),
				Size:         *obj.Size,
				LastModified: *obj.LastModified,
			})
		}

		if resp.NextContinuationToken == nil {
			break
		}
		nextToken = resp.NextContinuationToken
	}

	return objects, nil
}

func (b *Backend) DeleteOne(ctx context.Context, key string) error {
	_, err := b.svc.DeleteObjectWithContext(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
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

// PresignGet generates a time-limited download URL.
func (b *Backend) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, _ := b.svc.GetObjectRequest(&awss3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign %q: %w", key, err)
	}

	return url, nil
}

func (b *Backend) urlFor(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
}
