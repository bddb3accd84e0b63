package postgres

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TopicPostgres struct {
	db *pgxpool.Pool
}

func NewTopicPostgres(db *pgxpool.Pool) *TopicPostgres {
	return &TopicPostgres{db: db}
}

func (r *TopicPostgres) ListTopics(ctx context.Context) ([]models.TopicPreview, error) {
	query := `
        SELECT t.id, t.title, t.description, t.color, t.background_image_url,
               t.created_at, t.updated_at,
               (SELECT COUNT(*) FROM lessons l WHERE l.topic_id = t.id),
               (SELECT COUNT(*) FROM quizzes q
                  LEFT JOIN lessons ql ON ql.id = q.lesson_id
                 WHERE COALESCE(ql.topic_id, q.topic_id) = t.id),
               (SELECT COUNT(*) FROM keywords k WHERE k.topic_id = t.id)
          FROM topics t
         ORDER BY t.id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []models.TopicPreview
	for rows.Next() {
		var t models.TopicPreview
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Color, &t.BackgroundImageURL,
			&t.CreatedAt, &t.UpdatedAt,
			&t.LessonsCount, &t.QuizzesCount, &t.KeywordsCount,
		); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *TopicPostgres) TopicByID(ctx context.Context, id int64) (*models.Topic, error) {
	const query = `
        SELECT id, title, description, color, background_image_url, created_at, updated_at
          FROM topics
         WHERE id = $1
    `
	topic := &models.Topic{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&topic.ID, &topic.Title, &topic.Description, &topic.Color,
		&topic.BackgroundImageURL, &topic.CreatedAt, &topic.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrTopicNotFound
		}
		return nil, err
	}
	return topic, nil
}

func (r *TopicPostgres) CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error) {
	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	query := `
    INSERT INTO topics (title, description, color, background_image_url, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		topic.Title, topic.Description, topic.Color, topic.BackgroundImageURL,
		topic.CreatedAt, topic.UpdatedAt,
	).Scan(&topic.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert topic: %w", err)
	}
	return &topic, nil
}

func (r *TopicPostgres) UpdateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error) {
	query := `
        UPDATE topics
           SET title = $2,
               description = $3,
               color = $4,
               background_image_url = $5,
               updated_at = NOW()
         WHERE id = $1
     RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		topic.ID, topic.Title, topic.Description, topic.Color, topic.BackgroundImageURL,
	).Scan(&topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrTopicNotFound
		}
		return nil, err
	}
	return &topic, nil
}

func (r *TopicPostgres) DeleteTopic(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrTopicNotFound
	}
	return nil
}
