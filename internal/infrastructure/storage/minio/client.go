// Package minio stores uploaded patent documents in an S3-compatible bucket.
package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used by the document store.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

const defaultRegion = "us-east-1"

// NewAPI connects to the configured endpoint and makes sure the bucket
// exists.
func NewAPI(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (MinIOAPI, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := EnsureBucket(ctx, client, cfg.Bucket, region, log); err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("MinIO client connected",
			logging.String("endpoint", cfg.Endpoint),
			logging.String("bucket", cfg.Bucket),
			logging.Bool("ssl", cfg.UseSSL))
	}
	return client, nil
}

// EnsureBucket creates bucket when it does not exist.
func EnsureBucket(ctx context.Context, api MinIOAPI, bucket, region string, log logging.Logger) error {
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence").WithDetail(bucket)
	}
	if exists {
		return nil
	}
	if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail(bucket)
	}
	if log != nil {
		log.Info("Created bucket", logging.String("bucket", bucket))
	}
	return nil
}

//Personal.AI order the ending
