package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	appconfig "tutortrack_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveStore uploads report archives to S3 so monthly zips survive the
// single-server filesystem.
type ArchiveStore struct {
	client *s3.Client
	bucket string
}

// NewArchiveStore creates a store from the ambient AWS configuration.
func NewArchiveStore(ctx context.Context) (*ArchiveStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(appconfig.AppConfig.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return &ArchiveStore{
		client: s3.NewFromConfig(cfg),
		bucket: appconfig.AppConfig.S3BucketName,
	}, nil
}

// UploadArchive stores a zip under reports/<year>/<name> and returns the key.
func (as *ArchiveStore) UploadArchive(ctx context.Context, name string, data *bytes.Buffer) (string, error) {
	key := fmt.Sprintf("reports/%d/%s", time.Now().Year(), name)
	_, err := as.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(as.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive to S3: %v", err)
	}
	return key, nil
}
