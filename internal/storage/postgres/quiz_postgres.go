package postgres

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuizPostgres struct {
	db *pgxpool.Pool
}

func NewQuizPostgres(db *pgxpool.Pool) *QuizPostgres {
	return &QuizPostgres{db: db}
}

func (r *QuizPostgres) QuizByID(ctx context.Context, id int64) (*models.Quiz, error) {
	query := `
        SELECT id, topic_id, lesson_id, title, created_at, updated_at
          FROM quizzes
         WHERE id = $1
    `
	var q models.Quiz
	err := r.db.QueryRow(ctx, query, id).Scan(&q.ID, &q.TopicID, &q.LessonID, &q.Title, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := r.questionRows(ctx, []int64{q.ID})
	if err != nil {
		return nil, err
	}
	q.Questions = questions[q.ID]
	return &q, nil
}

func (r *QuizPostgres) QuizzesByLesson(ctx context.Context, lessonID int64) ([]models.Quiz, error) {
	query := `
        SELECT id, topic_id, lesson_id, title, created_at, updated_at
          FROM quizzes
         WHERE lesson_id = $1
         ORDER BY id
    `
	return r.quizzesWithQuestions(ctx, query, lessonID)
}

func (r *QuizPostgres) QuizzesByTopic(ctx context.Context, topicID int64) ([]models.Quiz, error) {
	query := `
        SELECT q.id, q.topic_id, q.lesson_id, q.title, q.created_at, q.updated_at
          FROM quizzes q
          LEFT JOIN lessons l ON l.id = q.lesson_id
         WHERE COALESCE(l.topic_id, q.topic_id) = $1
         ORDER BY q.id
    `
	return r.quizzesWithQuestions(ctx, query, topicID)
}

func (r *QuizPostgres) quizzesWithQuestions(ctx context.Context, query string, args ...any) ([]models.Quiz, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	var ids []int64
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.TopicID, &q.LessonID, &q.Title, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
		ids = append(ids, q.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return quizzes, nil
	}

	questions, err := r.questionRows(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].Questions = questions[quizzes[i].ID]
	}
	return quizzes, nil
}

func (r *QuizPostgres) questionRows(ctx context.Context, quizIDs []int64) (map[int64][]models.Question, error) {
	query := `
        SELECT id, quiz_id, question, options, correct_answer, created_at, updated_at
          FROM questions
         WHERE quiz_id = ANY($1)
         ORDER BY quiz_id, id
    `
	rows, err := r.db.Query(ctx, query, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	byQuiz := make(map[int64][]models.Question, len(quizIDs))
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Question, &q.Options, &q.CorrectAnswer, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		byQuiz[q.QuizID] = append(byQuiz[q.QuizID], q)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return byQuiz, nil
}

// QuestionsByQuiz returns the questions of one quiz in id order. A quiz
// without questions gives an empty slice, a missing quiz ErrQuizNotFound.
func (r *QuizPostgres) QuestionsByQuiz(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	if err := r.exists(ctx, `SELECT 1 FROM quizzes WHERE id = $1`, quizID, app_errors.ErrQuizNotFound); err != nil {
		return nil, err
	}
	query := `
        SELECT id, question, options, correct_answer
          FROM questions
         WHERE quiz_id = $1
         ORDER BY id
    `
	return r.sessionQuestions(ctx, query, quizID)
}

// QuestionsByLesson returns the questions of every quiz attached to a lesson,
// grouped by quiz in id order. A missing lesson gives ErrLessonNotFound.
func (r *QuizPostgres) QuestionsByLesson(ctx context.Context, lessonID int64) ([]quiz.Question, error) {
	if err := r.exists(ctx, `SELECT 1 FROM lessons WHERE id = $1`, lessonID, app_errors.ErrLessonNotFound); err != nil {
		return nil, err
	}
	query := `
        SELECT qs.id, qs.question, qs.options, qs.correct_answer
          FROM questions qs
          JOIN quizzes q ON q.id = qs.quiz_id
         WHERE q.lesson_id = $1
         ORDER BY q.id, qs.id
    `
	return r.sessionQuestions(ctx, query, lessonID)
}

func (r *QuizPostgres) exists(ctx context.Context, query string, id int64, notFound error) error {
	var one int
	if err := r.db.QueryRow(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		return err
	}
	return nil
}

func (r *QuizPostgres) sessionQuestions(ctx context.Context, query string, id int64) ([]quiz.Question, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []quiz.Question
	for rows.Next() {
		var (
			qID     int64
			prompt  string
			options []string
			correct int
		)
		if err := rows.Scan(&qID, &prompt, &options, &correct); err != nil {
			return nil, err
		}
		q, err := quiz.NewQuestion(qID, prompt, options, correct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrMalformedQuestion, err)
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuizPostgres) CreateQuiz(ctx context.Context, q models.Quiz, questions []models.QuestionInput) (*models.Quiz, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	insertQuery := `
    INSERT INTO quizzes (topic_id, lesson_id, title, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
    `
	if err := tx.QueryRow(ctx, insertQuery, q.TopicID, q.LessonID, q.Title, q.CreatedAt, q.UpdatedAt).Scan(&q.ID); err != nil {
		return nil, fmt.Errorf("failed to insert quiz: %w", err)
	}

	q.Questions, err = insertQuestions(ctx, tx, q.ID, questions, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuiz renames the quiz and replaces its whole question set.
func (r *QuizPostgres) UpdateQuiz(ctx context.Context, quizID int64, title string, questions []models.QuestionInput) (*models.Quiz, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var q models.Quiz
	updateQuery := `
        UPDATE quizzes SET title = $2, updated_at = NOW()
         WHERE id = $1
     RETURNING id, topic_id, lesson_id, title, created_at, updated_at
    `
	err = tx.QueryRow(ctx, updateQuery, quizID, title).Scan(&q.ID, &q.TopicID, &q.LessonID, &q.Title, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuizNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return nil, fmt.Errorf("failed to delete questions: %w", err)
	}

	q.Questions, err = insertQuestions(ctx, tx, quizID, questions, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &q, nil
}

func insertQuestions(ctx context.Context, tx pgx.Tx, quizID int64, questions []models.QuestionInput, now time.Time) ([]models.Question, error) {
	insertQuery := `
    INSERT INTO questions (quiz_id, question, options, correct_answer, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
    `
	out := make([]models.Question, 0, len(questions))
	for _, in := range questions {
		q := models.Question{
			QuizID:        quizID,
			Question:      in.Question,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.QueryRow(ctx, insertQuery, q.QuizID, q.Question, q.Options, q.CorrectAnswer, q.CreatedAt, q.UpdatedAt).Scan(&q.ID); err != nil {
			return nil, fmt.Errorf("failed to insert question: %w", err)
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *QuizPostgres) DeleteQuiz(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrQuizNotFound
	}
	return nil
}
