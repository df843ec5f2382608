package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage implements the Storage interface against any S3-compatible
// object store.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

func NewMinIOStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinIOStorage, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("minio: missing endpoint or credentials")
	}
	if bucket == "" {
		return nil, fmt.Errorf("minio: bucket not configured")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: client init failed: %w", err)
	}
	return &MinIOStorage{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket check failed: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: bucket create failed: %w", err)
	}
	return nil
}

func (s *MinIOStorage) Put(ctx context.Context, obj *Object) error {
	if err := ValidateObject(obj); err != nil {
		return err
	}

	opts := minio.PutObjectOptions{ContentType: obj.ContentType}
	size := obj.Size
	if size <= 0 {
		// Unknown length, stream in parts.
		size = -1
	}
	if _, err := s.client.PutObject(ctx, s.bucket, obj.Key, obj.Reader, size, opts); err != nil {
		return fmt.Errorf("minio: upload failed: %w", err)
	}
	return nil
}

func (s *MinIOStorage) Get(ctx context.Context, key string) (*DownloadResult, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: download failed: %w", err)
	}

	// GetObject is lazy; Stat forces the first request so missing keys
	// surface here instead of on the first Read.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("minio: stat failed: %w", err)
	}

	return &DownloadResult{
		Reader:      obj,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: delete failed: %w", err)
	}
	return nil
}
