package lesson

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"fmt"
	"strings"
)

type lessonRepo interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	LessonsByTopic(ctx context.Context, topicID int64) ([]models.Lesson, error)
	ListLessons(ctx context.Context) ([]models.LessonWithTopic, error)
	UpdateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
}

type topicRepo interface {
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
}

type LessonService struct {
	log        logger.Log
	lessonRepo lessonRepo
	topicRepo  topicRepo
}

func NewLessonService(l logger.Log, lessonRepo lessonRepo, topicRepo topicRepo) *LessonService {
	return &LessonService{
		log:        l,
		lessonRepo: lessonRepo,
		topicRepo:  topicRepo,
	}
}

func validateLesson(lesson *models.Lesson) error {
	lesson.Title = strings.TrimSpace(lesson.Title)
	if lesson.Title == "" {
		return fmt.Errorf("%w: title is required", app_errors.ErrInvalidArgument)
	}
	lesson.SummaryDiagramURL = blankToNil(lesson.SummaryDiagramURL)
	lesson.PowerpointURL = blankToNil(lesson.PowerpointURL)
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (s *LessonService) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if err := validateLesson(&lesson); err != nil {
		return nil, err
	}
	if _, err := s.topicRepo.TopicByID(ctx, lesson.TopicID); err != nil {
		return nil, err
	}

	l, err := s.lessonRepo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	s.log.Info("lesson created", "lesson_id", l.ID, "topic_id", l.TopicID)
	return l, nil
}

func (s *LessonService) UpdateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if err := validateLesson(&lesson); err != nil {
		return nil, err
	}
	if _, err := s.topicRepo.TopicByID(ctx, lesson.TopicID); err != nil {
		return nil, err
	}
	return s.lessonRepo.UpdateLesson(ctx, lesson)
}

// DeleteLesson removes the lesson together with its quizzes.
func (s *LessonService) DeleteLesson(ctx context.Context, id int64) error {
	if err := s.lessonRepo.DeleteLesson(ctx, id); err != nil {
		return err
	}
	s.log.Info("lesson deleted", "lesson_id", id)
	return nil
}

func (s *LessonService) LessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	return s.lessonRepo.LessonByID(ctx, id)
}

func (s *LessonService) LessonsByTopic(ctx context.Context, topicID int64) ([]models.Lesson, error) {
	if _, err := s.topicRepo.TopicByID(ctx, topicID); err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.LessonsByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	return lessons, nil
}

func (s *LessonService) ListLessons(ctx context.Context) ([]models.LessonWithTopic, error) {
	lessons, err := s.lessonRepo.ListLessons(ctx)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []models.LessonWithTopic{}
	}
	return lessons, nil
}
