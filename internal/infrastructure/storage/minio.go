package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"srdashboard/internal/application/servicerequest/attachment"
	"srdashboard/internal/shared/config"
	"srdashboard/internal/shared/logger"
)

// MinioStore keeps attachments in an S3-compatible bucket. Objects are keyed
// by their stored name; public paths keep the /uploads/ prefix so records do
// not depend on the backend.
type MinioStore struct {
	client *minioSDK.Client
	bucket string
	logger logger.Interface
}

// NewMinioStore connects to the endpoint and creates the bucket if it is missing.
func NewMinioStore(ctx context.Context, cfg config.MinioConfig, logger logger.Interface) (*MinioStore, error) {
	client, err := minioSDK.New(cfg.Endpoint, &minioSDK.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Infow("created attachment bucket", "bucket", cfg.Bucket)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *MinioStore) Store(ctx context.Context, data []byte, name string) (string, error) {
	name, err := checkName(name)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minioSDK.PutObjectOptions{ContentType: mimetype.Detect(data).String()})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	s.logger.Debugw("attachment uploaded", "bucket", s.bucket, "name", name, "size", len(data))
	return publicPath(name), nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) (bool, error) {
	name, err := objectName(path)
	if err != nil {
		return false, err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, name, minioSDK.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat attachment: %w", err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, name, minioSDK.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("failed to remove attachment: %w", err)
	}
	return true, nil
}

func (s *MinioStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	name, err := objectName(path)
	if err != nil {
		return nil, attachment.ErrNotFound
	}

	// GetObject is lazy; stat first so a missing key maps to ErrNotFound.
	if _, err := s.client.StatObject(ctx, s.bucket, name, minioSDK.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, attachment.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat attachment: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minioSDK.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return obj, nil
}

func isNoSuchKey(err error) bool {
	return minioSDK.ToErrorResponse(err).Code == "NoSuchKey"
}
