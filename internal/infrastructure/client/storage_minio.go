package client

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage stores rendered documents in MinIO, one bucket per
// company, and hands out presigned download URLs.
type MinioStorage struct {
	client       *minio.Client
	bucketPrefix string
	urlExpiry    time.Duration
}

// NewMinioStorage connects to the MinIO endpoint
func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, bucketPrefix string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	return &MinioStorage{
		client:       client,
		bucketPrefix: bucketPrefix,
		urlExpiry:    7 * 24 * time.Hour,
	}, nil
}

var _ port.StorageAdapter = (*MinioStorage)(nil)

func (s *MinioStorage) UploadPDF(ctx context.Context, companyID, objectKey string, pdf []byte) (string, error) {
	bucket := fmt.Sprintf("%s-%s", s.bucketPrefix, companyID)

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	_, err = s.client.PutObject(ctx, bucket, objectKey,
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", objectKey, err)
	}

	url, err := s.client.PresignedGetObject(ctx, bucket, objectKey, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", objectKey, err)
	}
	return url.String(), nil
}
