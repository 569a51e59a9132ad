package storage

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore is the object-storage collaborator. Writes are one-shot;
// failed writes are reported, not retried.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// S3Store writes objects to S3.
type S3Store struct {
	client *s3.Client
}

// NewS3Store builds a store from the ambient AWS configuration
// (environment, shared config, instance role).
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

// Put uploads one object.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(body),
		ContentType:     aws.String(contentType),
		ContentEncoding: aws.String("utf-8"),
	})
	if err != nil {
		return err
	}
	slog.Info("object stored", "bucket", bucket, "key", key, "bytes", len(body))
	return nil
}
