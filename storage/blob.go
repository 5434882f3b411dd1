package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore is the blob-storage collaborator. The rest of the app only
// ever sees the returned URL.
type BlobStore interface {
	Put(ctx context.Context, folder, filename string, body io.Reader, contentType string) (string, error)
}

type s3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(ctx context.Context) (BlobStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &s3Store{
		client: s3.NewFromConfig(cfg),
		bucket: os.Getenv("BUCKET_NAME"),
		region: os.Getenv("AWS_REGION"),
	}, nil
}

func (s *s3Store) Put(ctx context.Context, folder, filename string, body io.Reader, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Random suffix so re-uploads of the same filename never collide.
	key := fmt.Sprintf("%s/%s-%s%s", folder, base, uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
