package models

import "time"

type Topic struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Color              string    `json:"color"`
	BackgroundImageURL string    `json:"background_image_url"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type TopicPreview struct {
	Topic
	LessonsCount  int `json:"lessons_count"`
	QuizzesCount  int `json:"quizzes_count"`
	KeywordsCount int `json:"keywords_count"`
}
