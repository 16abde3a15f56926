package minio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"unicode"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

const (
	objectPrefix     = "uploads/"
	metaOriginalName = "Original-Name"
)

// DocumentStore keeps uploaded documents under content-addressed keys, so
// re-uploading the same bytes does not create a second object.
type DocumentStore struct {
	api    MinIOAPI
	bucket string
	logger logging.Logger
}

// NewDocumentStore creates a store on bucket.
func NewDocumentStore(api MinIOAPI, bucket string, log logging.Logger) *DocumentStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DocumentStore{api: api, bucket: bucket, logger: log.Named("document_store")}
}

// Put uploads data and returns its object key.
func (s *DocumentStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "document is empty")
	}
	key := ObjectKey(name, data)

	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		s.logger.Debug("document already stored", logging.String("key", key))
		return key, nil
	} else if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		s.logger.Warn("stat before upload failed", logging.String("key", key), logging.Err(err))
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{metaOriginalName: name},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload document").WithDetail(name)
	}
	s.logger.Info("document stored",
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return key, nil
}

// Delete removes a stored document.
func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to delete document").WithDetail(key)
	}
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (s *DocumentStore) HealthCheck(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "document store unreachable")
	}
	if !exists {
		return errors.New(errors.ErrCodeStorageError, "document bucket missing").WithDetail(s.bucket)
	}
	return nil
}

// ObjectKey derives uploads/<sha256>/<sanitized name>.
func ObjectKey(name string, data []byte) string {
	sum := sha256.Sum256(data)
	return objectPrefix + hex.EncodeToString(sum[:]) + "/" + sanitizeName(name)
}

func sanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if clean == "" || clean == "." || clean == ".." || clean == "/" {
		return "document"
	}
	return clean
}

//Personal.AI order the ending
