package postgres

import (
	"ForestEdu/internal/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsPostgres struct {
	db *pgxpool.Pool
}

func NewStatsPostgres(db *pgxpool.Pool) *StatsPostgres {
	return &StatsPostgres{db: db}
}

func (r *StatsPostgres) Totals(ctx context.Context) (*models.Stats, error) {
	query := `
        SELECT (SELECT COUNT(*) FROM lessons),
               (SELECT COUNT(*) FROM quizzes),
               (SELECT COUNT(*) FROM questions),
               (SELECT COUNT(*) FROM keywords)
    `
	var s models.Stats
	err := r.db.QueryRow(ctx, query).Scan(&s.TotalLessons, &s.TotalQuizzes, &s.TotalQuestions, &s.TotalKeywords)
	if err != nil {
		return nil, fmt.Errorf("failed to count totals: %w", err)
	}
	return &s, nil
}

func (r *StatsPostgres) TopicSummaries(ctx context.Context) ([]models.TopicSummary, error) {
	query := `
        SELECT t.id, t.title,
               (SELECT COUNT(*) FROM lessons l WHERE l.topic_id = t.id),
               (SELECT COUNT(*) FROM quizzes q
                  LEFT JOIN lessons ql ON ql.id = q.lesson_id
                 WHERE COALESCE(ql.topic_id, q.topic_id) = t.id),
               (SELECT COUNT(*) FROM questions qs
                  JOIN quizzes q ON q.id = qs.quiz_id
                  LEFT JOIN lessons ql ON ql.id = q.lesson_id
                 WHERE COALESCE(ql.topic_id, q.topic_id) = t.id),
               (SELECT COUNT(*) FROM keywords k WHERE k.topic_id = t.id)
          FROM topics t
         ORDER BY t.id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query topic summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.TopicSummary
	for rows.Next() {
		var s models.TopicSummary
		if err := rows.Scan(&s.TopicID, &s.Title, &s.TotalLessons, &s.TotalQuizzes, &s.TotalQuestions, &s.TotalKeywords); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// RecentActivity returns up to limit of the newest rows of each kind.
// Merging across kinds happens in the stats service.
func (r *StatsPostgres) RecentActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	query := `
        (SELECT l.id, 'lesson', l.title, t.title, l.created_at
           FROM lessons l JOIN topics t ON t.id = l.topic_id
          ORDER BY l.created_at DESC LIMIT $1)
        UNION ALL
        (SELECT q.id, 'quiz', q.title, t.title, q.created_at
           FROM quizzes q JOIN topics t ON t.id = q.topic_id
          ORDER BY q.created_at DESC LIMIT $1)
        UNION ALL
        (SELECT k.id, 'keyword', k.term, t.title, k.created_at
           FROM keywords k JOIN topics t ON t.id = k.topic_id
          ORDER BY k.created_at DESC LIMIT $1)
        UNION ALL
        (SELECT f.id, 'file', f.title, f.file_name, f.created_at
           FROM exam_files f
          ORDER BY f.created_at DESC LIMIT $1)
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()

	var activity []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Title, &a.Subtitle, &a.Timestamp); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return activity, nil
}
