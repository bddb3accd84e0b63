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

type LessonPostgres struct {
	db *pgxpool.Pool
}

func NewLessonPostgres(db *pgxpool.Pool) *LessonPostgres {
	return &LessonPostgres{db: db}
}

const lessonColumns = `id, topic_id, title, content, duration,
           summary_diagram_url, powerpoint_url, created_at, updated_at`

func scanLesson(row pgx.Row, l *models.Lesson) error {
	return row.Scan(
		&l.ID, &l.TopicID, &l.Title, &l.Content, &l.Duration,
		&l.SummaryDiagramURL, &l.PowerpointURL, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *LessonPostgres) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	insertQuery := `
    INSERT INTO lessons (
        topic_id, title, content, duration,
        summary_diagram_url, powerpoint_url, created_at, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
    `
	err := r.db.QueryRow(ctx, insertQuery,
		lesson.TopicID, lesson.Title, lesson.Content, lesson.Duration,
		lesson.SummaryDiagramURL, lesson.PowerpointURL, lesson.CreatedAt, lesson.UpdatedAt,
	).Scan(&lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert lesson: %w", err)
	}
	return &lesson, nil
}

func (r *LessonPostgres) LessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	var lesson models.Lesson
	if err := scanLesson(r.db.QueryRow(ctx, query, id), &lesson); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("lesson not found: %w", err)
	}
	return &lesson, nil
}

func (r *LessonPostgres) LessonsByTopic(ctx context.Context, topicID int64) ([]models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE topic_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons by topic: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonPostgres) ListLessons(ctx context.Context) ([]models.LessonWithTopic, error) {
	query := `
        SELECT l.id, l.topic_id, l.title, l.content, l.duration,
               l.summary_diagram_url, l.powerpoint_url, l.created_at, l.updated_at,
               t.title
          FROM lessons l
          JOIN topics t ON t.id = l.topic_id
         ORDER BY l.created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.LessonWithTopic
	for rows.Next() {
		var l models.LessonWithTopic
		if err := rows.Scan(
			&l.ID, &l.TopicID, &l.Title, &l.Content, &l.Duration,
			&l.SummaryDiagramURL, &l.PowerpointURL, &l.CreatedAt, &l.UpdatedAt,
			&l.TopicTitle,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonPostgres) UpdateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	query := `
        UPDATE lessons
           SET topic_id = $2,
               title = $3,
               content = $4,
               duration = $5,
               summary_diagram_url = $6,
               powerpoint_url = $7,
               updated_at = NOW()
         WHERE id = $1
     RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		lesson.ID, lesson.TopicID, lesson.Title, lesson.Content, lesson.Duration,
		lesson.SummaryDiagramURL, lesson.PowerpointURL,
	).Scan(&lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonPostgres) DeleteLesson(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM quizzes WHERE lesson_id = $1`, id)
	if err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrLessonNotFound
	}

	return tx.Commit(ctx)
}
