package query

import (
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
)

type quizRepo interface {
	QuizzesByLesson(ctx context.Context, lessonID int64) ([]models.Quiz, error)
	QuizzesByTopic(ctx context.Context, topicID int64) ([]models.Quiz, error)
}

type topicRepo interface {
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
}

type lessonRepo interface {
	LessonByID(ctx context.Context, id int64) (*models.Lesson, error)
}

type QuizQueryService struct {
	log        logger.Log
	quizRepo   quizRepo
	topicRepo  topicRepo
	lessonRepo lessonRepo
}

func NewQuizQueryService(log logger.Log, q quizRepo, t topicRepo, l lessonRepo) *QuizQueryService {
	return &QuizQueryService{
		log:        log,
		quizRepo:   q,
		topicRepo:  t,
		lessonRepo: l,
	}
}

// EstimatedMinutes allows a minute and a half per question, rounded half up.
func EstimatedMinutes(questions int) int {
	if questions <= 0 {
		return 0
	}
	return (3*questions + 1) / 2
}

func (s *QuizQueryService) QuizzesByLesson(ctx context.Context, lessonID int64) ([]models.Quiz, error) {
	if _, err := s.lessonRepo.LessonByID(ctx, lessonID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.QuizzesByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	return quizzes, nil
}

func (s *QuizQueryService) QuizzesByTopic(ctx context.Context, topicID int64) (*models.TopicQuizzesStats, error) {
	if _, err := s.topicRepo.TopicByID(ctx, topicID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.QuizzesByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	stats := &models.TopicQuizzesStats{
		TotalQuizzes: len(quizzes),
		Quizzes:      quizzes,
	}
	if stats.Quizzes == nil {
		stats.Quizzes = []models.Quiz{}
	}
	for _, q := range quizzes {
		stats.TotalQuestions += len(q.Questions)
	}
	stats.EstimatedTime = EstimatedMinutes(stats.TotalQuestions)
	return stats, nil
}
