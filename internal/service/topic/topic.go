package topic

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"fmt"
	"regexp"
	"strings"
)

const defaultColor = "#4CAF50"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type topicRepo interface {
	ListTopics(ctx context.Context) ([]models.TopicPreview, error)
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
	CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error)
	UpdateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id int64) error
}

type TopicService struct {
	log       logger.Log
	topicRepo topicRepo
}

func NewTopicService(l logger.Log, r topicRepo) *TopicService {
	return &TopicService{log: l, topicRepo: r}
}

func normalize(t *models.Topic) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", app_errors.ErrInvalidArgument)
	}
	t.Description = strings.TrimSpace(t.Description)
	t.BackgroundImageURL = strings.TrimSpace(t.BackgroundImageURL)

	t.Color = strings.TrimSpace(t.Color)
	if t.Color == "" {
		t.Color = defaultColor
	}
	if !hexColor.MatchString(t.Color) {
		return fmt.Errorf("%w: color %q is not a hex color", app_errors.ErrInvalidArgument, t.Color)
	}
	return nil
}

func (s *TopicService) ListTopics(ctx context.Context) ([]models.TopicPreview, error) {
	topics, err := s.topicRepo.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []models.TopicPreview{}
	}
	return topics, nil
}

func (s *TopicService) TopicByID(ctx context.Context, id int64) (*models.Topic, error) {
	return s.topicRepo.TopicByID(ctx, id)
}

func (s *TopicService) CreateTopic(ctx context.Context, t models.Topic) (*models.Topic, error) {
	if err := normalize(&t); err != nil {
		return nil, err
	}
	created, err := s.topicRepo.CreateTopic(ctx, t)
	if err != nil {
		return nil, err
	}
	s.log.Info("topic created", "topic_id", created.ID)
	return created, nil
}

func (s *TopicService) UpdateTopic(ctx context.Context, t models.Topic) (*models.Topic, error) {
	if err := normalize(&t); err != nil {
		return nil, err
	}
	return s.topicRepo.UpdateTopic(ctx, t)
}

// DeleteTopic cascades to the topic's lessons, quizzes and keywords.
func (s *TopicService) DeleteTopic(ctx context.Context, id int64) error {
	if err := s.topicRepo.DeleteTopic(ctx, id); err != nil {
		return err
	}
	s.log.Info("topic deleted", "topic_id", id)
	return nil
}
