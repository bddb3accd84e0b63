package management

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"ForestEdu/pkg/logger"
	"context"
	"fmt"
	"strings"
)

type quizRepo interface {
	QuizByID(ctx context.Context, id int64) (*models.Quiz, error)
	CreateQuiz(ctx context.Context, q models.Quiz, questions []models.QuestionInput) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID int64, title string, questions []models.QuestionInput) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id int64) error
}

type topicRepo interface {
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
}

type lessonRepo interface {
	LessonByID(ctx context.Context, id int64) (*models.Lesson, error)
}

type QuizManagementService struct {
	log        logger.Log
	quizRepo   quizRepo
	topicRepo  topicRepo
	lessonRepo lessonRepo
}

func NewQuizManagementService(log logger.Log, q quizRepo, t topicRepo, l lessonRepo) *QuizManagementService {
	return &QuizManagementService{
		log:        log,
		quizRepo:   q,
		topicRepo:  t,
		lessonRepo: l,
	}
}

// ValidateQuestions runs every input through the same checks a session
// applies, so a stored quiz can always be started.
func ValidateQuestions(questions []models.QuestionInput) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: quiz needs at least one question", app_errors.ErrInvalidArgument)
	}
	for i, in := range questions {
		if strings.TrimSpace(in.Question) == "" {
			return fmt.Errorf("%w: question %d has no text", app_errors.ErrInvalidArgument, i+1)
		}
		for j, opt := range in.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("%w: question %d option %d is empty", app_errors.ErrInvalidArgument, i+1, j+1)
			}
		}
		if _, err := quiz.NewQuestion(int64(i), in.Question, in.Options, in.CorrectAnswer); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// CreateQuiz stores a quiz under a topic, or under a lesson when lessonID is
// set. A lesson quiz always takes the lesson's topic.
func (s *QuizManagementService) CreateQuiz(ctx context.Context, topicID int64, lessonID *int64, title string, questions []models.QuestionInput) (*models.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", app_errors.ErrInvalidArgument)
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}

	if lessonID != nil {
		lesson, err := s.lessonRepo.LessonByID(ctx, *lessonID)
		if err != nil {
			return nil, err
		}
		topicID = lesson.TopicID
	} else if _, err := s.topicRepo.TopicByID(ctx, topicID); err != nil {
		return nil, err
	}

	q, err := s.quizRepo.CreateQuiz(ctx, models.Quiz{TopicID: topicID, LessonID: lessonID, Title: title}, questions)
	if err != nil {
		return nil, err
	}
	s.log.Info("quiz created", "quiz_id", q.ID, "topic_id", q.TopicID, "questions", len(q.Questions))
	return q, nil
}

// UpdateQuiz renames a quiz and replaces all of its questions.
func (s *QuizManagementService) UpdateQuiz(ctx context.Context, quizID int64, title string, questions []models.QuestionInput) (*models.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", app_errors.ErrInvalidArgument)
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return s.quizRepo.UpdateQuiz(ctx, quizID, title, questions)
}

func (s *QuizManagementService) DeleteQuiz(ctx context.Context, quizID int64) error {
	return s.quizRepo.DeleteQuiz(ctx, quizID)
}

func (s *QuizManagementService) QuizByID(ctx context.Context, quizID int64) (*models.Quiz, error) {
	return s.quizRepo.QuizByID(ctx, quizID)
}
