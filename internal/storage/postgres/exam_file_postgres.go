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

type ExamFilePostgres struct {
	db *pgxpool.Pool
}

func NewExamFilePostgres(db *pgxpool.Pool) *ExamFilePostgres {
	return &ExamFilePostgres{db: db}
}

func (r *ExamFilePostgres) CreateExamFile(ctx context.Context, f models.ExamFile) (*models.ExamFile, error) {
	f.CreatedAt = time.Now().UTC()
	query := `
    INSERT INTO exam_files (
        title, file_name, file_path, file_type, file_size,
        public_url, topic_id, uploaded_by, created_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		f.Title, f.FileName, f.FilePath, f.FileType, f.FileSize,
		f.PublicURL, f.TopicID, f.UploadedBy, f.CreatedAt,
	).Scan(&f.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert exam file: %w", err)
	}
	return &f, nil
}

// ListExamFiles returns files newest first. A nil topicID lists every file.
func (r *ExamFilePostgres) ListExamFiles(ctx context.Context, topicID *int64) ([]models.ExamFile, error) {
	query := `
        SELECT id, title, file_name, file_path, file_type, file_size,
               public_url, topic_id, uploaded_by, created_at
          FROM exam_files
         WHERE ($1::BIGINT IS NULL OR topic_id = $1)
         ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exam files: %w", err)
	}
	defer rows.Close()

	var files []models.ExamFile
	for rows.Next() {
		var f models.ExamFile
		if err := rows.Scan(
			&f.ID, &f.Title, &f.FileName, &f.FilePath, &f.FileType, &f.FileSize,
			&f.PublicURL, &f.TopicID, &f.UploadedBy, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *ExamFilePostgres) ExamFileByID(ctx context.Context, id int64) (*models.ExamFile, error) {
	var f models.ExamFile
	err := r.db.QueryRow(ctx, `
        SELECT id, title, file_name, file_path, file_type, file_size,
               public_url, topic_id, uploaded_by, created_at
          FROM exam_files
         WHERE id = $1
    `, id).Scan(
		&f.ID, &f.Title, &f.FileName, &f.FilePath, &f.FileType, &f.FileSize,
		&f.PublicURL, &f.TopicID, &f.UploadedBy, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrExamFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *ExamFilePostgres) DeleteExamFile(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM exam_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrExamFileNotFound
	}
	return nil
}
