package minio_storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

type ExamPaperStorage struct {
	storage      *MinioStorage
	bucket       string
	public       bool
	presignedTTL time.Duration
}

func NewExamPaperStorage(storage *MinioStorage, bucketKey string) (*ExamPaperStorage, error) {
	bc, err := storage.Bucket(bucketKey)
	if err != nil {
		return nil, err
	}
	ttl := bc.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ExamPaperStorage{storage: storage, bucket: bc.Name, public: bc.Public, presignedTTL: ttl}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ExamPaperKey builds "<year>/<unix-ms>_<name>" with every run of characters
// outside [a-zA-Z0-9._-] in the name replaced by a single underscore.
func ExamPaperKey(filename string, now time.Time) string {
	name := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	name = strings.Trim(name, "_")
	if name == "" || name == "." {
		name = "file"
	}
	return fmt.Sprintf("%d/%d_%s", now.Year(), now.UnixMilli(), name)
}

func (s *ExamPaperStorage) Upload(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	_, err := s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

// URL returns a plain object URL for public buckets and a presigned one otherwise.
func (s *ExamPaperStorage) URL(ctx context.Context, objectKey string) (string, error) {
	if s.public {
		u := *s.storage.client.EndpointURL()
		u.Path = "/" + s.bucket + "/" + objectKey
		return u.String(), nil
	}

	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		make(url.Values),
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *ExamPaperStorage) Delete(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
