package postgres

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type KeywordPostgres struct {
	db *pgxpool.Pool
}

func NewKeywordPostgres(db *pgxpool.Pool) *KeywordPostgres {
	return &KeywordPostgres{db: db}
}

func (r *KeywordPostgres) queryKeywords(ctx context.Context, query string, args ...any) ([]models.Keyword, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []models.Keyword
	for rows.Next() {
		var k models.Keyword
		if err := rows.Scan(&k.ID, &k.TopicID, &k.Term, &k.Definition, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return keywords, nil
}

func (r *KeywordPostgres) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	return r.queryKeywords(ctx, `
        SELECT id, topic_id, term, definition, created_at, updated_at
          FROM keywords
         ORDER BY id
    `)
}

func (r *KeywordPostgres) KeywordsByTopic(ctx context.Context, topicID int64) ([]models.Keyword, error) {
	return r.queryKeywords(ctx, `
        SELECT id, topic_id, term, definition, created_at, updated_at
          FROM keywords
         WHERE topic_id = $1
         ORDER BY id
    `, topicID)
}

func (r *KeywordPostgres) KeywordsByIDs(ctx context.Context, ids []int64) ([]models.Keyword, error) {
	return r.queryKeywords(ctx, `
        SELECT id, topic_id, term, definition, created_at, updated_at
          FROM keywords
         WHERE id = ANY($1)
    `, ids)
}

// SearchKeywords matches the term or the definition as a case-insensitive
// substring. topicID 0 searches every topic.
func (r *KeywordPostgres) SearchKeywords(ctx context.Context, topicID int64, term string) ([]models.Keyword, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(term)) + "%"
	return r.queryKeywords(ctx, `
        SELECT id, topic_id, term, definition, created_at, updated_at
          FROM keywords
         WHERE ($1 = 0 OR topic_id = $1)
           AND (term ILIKE $2 OR definition ILIKE $2)
         ORDER BY id
    `, topicID, pattern)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *KeywordPostgres) KeywordByID(ctx context.Context, id int64) (*models.Keyword, error) {
	var k models.Keyword
	err := r.db.QueryRow(ctx, `
        SELECT id, topic_id, term, definition, created_at, updated_at
          FROM keywords
         WHERE id = $1
    `, id).Scan(&k.ID, &k.TopicID, &k.Term, &k.Definition, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrKeywordNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *KeywordPostgres) CreateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error) {
	now := time.Now().UTC()
	k.CreatedAt = now
	k.UpdatedAt = now

	err := r.db.QueryRow(ctx, `
    INSERT INTO keywords (topic_id, term, definition, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
    `, k.TopicID, k.Term, k.Definition, k.CreatedAt, k.UpdatedAt).Scan(&k.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrDuplicateKeyword
		}
		return nil, fmt.Errorf("failed to insert keyword: %w", err)
	}
	return &k, nil
}

func (r *KeywordPostgres) UpdateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error) {
	err := r.db.QueryRow(ctx, `
        UPDATE keywords
           SET term = $2, definition = $3, updated_at = NOW()
         WHERE id = $1
     RETURNING topic_id, created_at, updated_at
    `, k.ID, k.Term, k.Definition).Scan(&k.TopicID, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrKeywordNotFound
		}
		if isUniqueViolation(err) {
			return nil, app_errors.ErrDuplicateKeyword
		}
		return nil, err
	}
	return &k, nil
}

func (r *KeywordPostgres) DeleteKeyword(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrKeywordNotFound
	}
	return nil
}
