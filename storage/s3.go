package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"inevitable_academy_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveStore uploads report archives to S3
type ArchiveStore struct {
	awsConfig aws.Config
	bucket    string
}

// NewArchiveStore creates a store bound to the configured bucket
func NewArchiveStore() (*ArchiveStore, error) {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	return &ArchiveStore{
		awsConfig: cfg,
		bucket:    config.AppConfig.S3BucketName,
	}, nil
}

// Upload stores data under key with the given content type
func (as *ArchiveStore) Upload(ctx context.Context, key string, data *bytes.Buffer, contentType string) error {
	if as.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(as.awsConfig)
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &as.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String(contentType),
	})

	return err
}

// Download fetches a previously uploaded archive
func (as *ArchiveStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if as.awsConfig.Region == "" {
		return nil, fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(as.awsConfig)
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &as.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}

	return result.Body, nil
}
