package postgres

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttemptPostgres struct {
	db *pgxpool.Pool
}

func NewAttemptPostgres(db *pgxpool.Pool) *AttemptPostgres {
	return &AttemptPostgres{db: db}
}

const attemptColumns = `id, source_kind, source_id, questions, answers, status, started_at, updated_at, expires_at`

// attemptRow is one quiz_attempts row before the session is rebuilt from it.
type attemptRow struct {
	id        uuid.UUID
	kind      string
	sourceID  int64
	questions []byte
	answers   []byte
	status    string
	startedAt time.Time
	updatedAt time.Time
	expiresAt *time.Time
}

func (row *attemptRow) dest() []any {
	return []any{
		&row.id, &row.kind, &row.sourceID, &row.questions, &row.answers,
		&row.status, &row.startedAt, &row.updatedAt, &row.expiresAt,
	}
}

func (row attemptRow) attempt() (*models.QuizAttempt, error) {
	var questions []quiz.Question
	if err := json.Unmarshal(row.questions, &questions); err != nil {
		return nil, fmt.Errorf("%w: attempt %s questions: %v", app_errors.ErrMalformedAttempt, row.id, err)
	}
	answers := map[int64]int{}
	if len(row.answers) > 0 {
		if err := json.Unmarshal(row.answers, &answers); err != nil {
			return nil, fmt.Errorf("%w: attempt %s answers: %v", app_errors.ErrMalformedAttempt, row.id, err)
		}
	}
	session, err := quiz.Restore(questions, answers, quiz.Status(row.status))
	if err != nil {
		return nil, fmt.Errorf("%w: attempt %s: %v", app_errors.ErrMalformedAttempt, row.id, err)
	}

	return &models.QuizAttempt{
		ID:        row.id,
		Source:    models.AttemptSource{Kind: row.kind, ID: row.sourceID},
		Session:   session,
		StartedAt: row.startedAt,
		UpdatedAt: row.updatedAt,
		ExpiresAt: row.expiresAt,
	}, nil
}

// sessionColumns encodes the mutable part of a session. score is nil until the
// session is submitted.
func sessionColumns(s quiz.Session) (questions, answers []byte, score *int, err error) {
	if questions, err = json.Marshal(s.Questions()); err != nil {
		return nil, nil, nil, err
	}
	if answers, err = json.Marshal(s.Answers()); err != nil {
		return nil, nil, nil, err
	}
	if v, ok := s.Score(); ok {
		score = &v
	}
	return questions, answers, score, nil
}

func (r *AttemptPostgres) CreateAttempt(ctx context.Context, a models.QuizAttempt) error {
	questions, answers, score, err := sessionColumns(a.Session)
	if err != nil {
		return fmt.Errorf("failed to encode attempt: %w", err)
	}

	insertQuery := `
    INSERT INTO quiz_attempts (
        id, source_kind, source_id, questions, answers,
        status, score, started_at, updated_at, expires_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err = r.db.Exec(ctx, insertQuery,
		a.ID, a.Source.Kind, a.Source.ID, questions, answers,
		string(a.Session.Status()), score, a.StartedAt, a.UpdatedAt, a.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

func (r *AttemptPostgres) AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts WHERE id = $1`

	var row attemptRow
	if err := r.db.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrAttemptNotFound
		}
		return nil, err
	}
	return row.attempt()
}

// UpdateAttempt locks the row, hands the attempt to fn and writes back what fn
// left in it. Concurrent updates of one attempt are serialised by the row
// lock. When fn fails the transaction is rolled back and nothing changes.
func (r *AttemptPostgres) UpdateAttempt(ctx context.Context, id uuid.UUID, fn func(*models.QuizAttempt) error) (*models.QuizAttempt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts WHERE id = $1 FOR UPDATE`
	var row attemptRow
	if err := tx.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrAttemptNotFound
		}
		return nil, err
	}
	a, err := row.attempt()
	if err != nil {
		return nil, err
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	_, answers, score, err := sessionColumns(a.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attempt: %w", err)
	}
	updateQuery := `
        UPDATE quiz_attempts
           SET answers = $2, status = $3, score = $4, updated_at = $5, expires_at = $6
         WHERE id = $1
    `
	_, err = tx.Exec(ctx, updateQuery,
		id, answers, string(a.Session.Status()), score, a.UpdatedAt, a.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update attempt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AttemptPostgres) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM quiz_attempts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrAttemptNotFound
	}
	return nil
}

// DeleteExpiredAttempts removes every attempt whose deadline is at or before now.
func (r *AttemptPostgres) DeleteExpiredAttempts(ctx context.Context, now time.Time) (int64, error) {
	deleteQuery := `
        DELETE FROM quiz_attempts
         WHERE expires_at IS NOT NULL AND expires_at <= $1
    `
	cmdTag, err := r.db.Exec(ctx, deleteQuery, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired attempts: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
