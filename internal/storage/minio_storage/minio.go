package minio_storage

import (
	"ForestEdu/internal/config"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client  *minio.Client
	buckets map[string]config.BucketConfig
}

// NewMinioStorage connects and makes sure every configured bucket exists.
func NewMinioStorage(ctx context.Context, cfg config.Minio) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	for _, bc := range cfg.Buckets {
		exists, err := client.BucketExists(ctx, bc.Name)
		if err != nil {
			return nil, fmt.Errorf("error checking bucket %s: %w", bc.Name, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bc.Name, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("error creating bucket %s: %w", bc.Name, err)
			}
		}
	}

	return &MinioStorage{client: client, buckets: cfg.Buckets}, nil
}

func (s *MinioStorage) Bucket(key string) (config.BucketConfig, error) {
	bc, ok := s.buckets[key]
	if !ok || bc.Name == "" {
		return config.BucketConfig{}, fmt.Errorf("bucket %q is not configured", key)
	}
	return bc, nil
}
