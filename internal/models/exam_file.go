package models

import "time"

type ExamFile struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	PublicURL  string    `json:"public_url"`
	TopicID    *int64    `json:"topic_id"`
	UploadedBy *string   `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
