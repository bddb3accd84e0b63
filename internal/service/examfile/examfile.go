package examfile

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

type examFileRepo interface {
	CreateExamFile(ctx context.Context, f models.ExamFile) (*models.ExamFile, error)
	ListExamFiles(ctx context.Context, topicID *int64) ([]models.ExamFile, error)
	ExamFileByID(ctx context.Context, id int64) (*models.ExamFile, error)
	DeleteExamFile(ctx context.Context, id int64) error
}

type topicRepo interface {
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
}

type paperStorage interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	URL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type Upload struct {
	Title       string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	TopicID     *int64
	UploadedBy  *string
}

type ExamFileService struct {
	log          logger.Log
	repo         examFileRepo
	topicRepo    topicRepo
	storage      paperStorage
	maxSizeBytes int64
	objectKey    func(filename string, now time.Time) string
	now          func() time.Time
}

func NewExamFileService(
	l logger.Log,
	repo examFileRepo,
	topicRepo topicRepo,
	storage paperStorage,
	maxSizeBytes int64,
	objectKey func(filename string, now time.Time) string,
) *ExamFileService {
	return &ExamFileService{
		log:          l,
		repo:         repo,
		topicRepo:    topicRepo,
		storage:      storage,
		maxSizeBytes: maxSizeBytes,
		objectKey:    objectKey,
		now:          time.Now,
	}
}

func (s *ExamFileService) MaxSizeBytes() int64 {
	return s.maxSizeBytes
}

// Upload stores the object first and then its metadata row. If the row
// cannot be written the object is removed again.
func (s *ExamFileService) Upload(ctx context.Context, u Upload) (*models.ExamFile, error) {
	if u.Size <= 0 {
		return nil, app_errors.ErrEmptyFile
	}
	if s.maxSizeBytes > 0 && u.Size > s.maxSizeBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", app_errors.ErrFileSize, u.Size, s.maxSizeBytes)
	}
	if u.TopicID != nil {
		if _, err := s.topicRepo.TopicByID(ctx, *u.TopicID); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(u.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(u.FileName), filepath.Ext(u.FileName))
	}
	contentType := u.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(u.FileName))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.objectKey(u.FileName, s.now())
	if err := s.storage.Upload(ctx, key, u.Body, u.Size, contentType); err != nil {
		return nil, fmt.Errorf("upload exam paper: %w", err)
	}

	url, err := s.storage.URL(ctx, key)
	if err != nil {
		s.log.ErrorErr("failed to build exam paper url", err, "object_key", key)
	}

	f, err := s.repo.CreateExamFile(ctx, models.ExamFile{
		Title:      title,
		FileName:   filepath.Base(u.FileName),
		FilePath:   key,
		FileType:   contentType,
		FileSize:   u.Size,
		PublicURL:  url,
		TopicID:    u.TopicID,
		UploadedBy: u.UploadedBy,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.ErrorErr("failed to remove orphaned exam paper", delErr, "object_key", key)
		}
		return nil, err
	}

	s.log.Info("exam paper uploaded", "exam_file_id", f.ID, "object_key", key, "size", f.FileSize)
	return f, nil
}

// ListExamFiles returns files newest first with a fresh download URL each.
func (s *ExamFileService) ListExamFiles(ctx context.Context, topicID *int64) ([]models.ExamFile, error) {
	files, err := s.repo.ListExamFiles(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		return []models.ExamFile{}, nil
	}
	for i := range files {
		s.resolveURL(ctx, &files[i])
	}
	return files, nil
}

func (s *ExamFileService) ExamFileByID(ctx context.Context, id int64) (*models.ExamFile, error) {
	f, err := s.repo.ExamFileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveURL(ctx, f)
	return f, nil
}

func (s *ExamFileService) resolveURL(ctx context.Context, f *models.ExamFile) {
	url, err := s.storage.URL(ctx, f.FilePath)
	if err != nil {
		s.log.ErrorErr("failed to build exam paper url", err, "exam_file_id", f.ID)
		return
	}
	f.PublicURL = url
}

// DeleteExamFile removes the stored object, then the row. A failed object
// removal is logged and does not keep the row.
func (s *ExamFileService) DeleteExamFile(ctx context.Context, id int64) error {
	f, err := s.repo.ExamFileByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, f.FilePath); err != nil {
		s.log.ErrorErr("failed to delete exam paper object", err, "exam_file_id", id, "object_key", f.FilePath)
	}
	return s.repo.DeleteExamFile(ctx, id)
}
