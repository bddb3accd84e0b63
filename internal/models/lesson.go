package models

import "time"

type Lesson struct {
	ID                int64     `json:"id"`
	TopicID           int64     `json:"topic_id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	Duration          string    `json:"duration"`
	SummaryDiagramURL *string   `json:"summary_diagram_url,omitempty"`
	PowerpointURL     *string   `json:"powerpoint_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LessonWithTopic struct {
	Lesson
	TopicTitle string `json:"topic_title"`
}
