package models

import "time"

const (
	ActivityLesson  = "lesson"
	ActivityQuiz    = "quiz"
	ActivityKeyword = "keyword"
	ActivityFile    = "file"
)

type Stats struct {
	TotalLessons   int `json:"total_lessons"`
	TotalQuizzes   int `json:"total_quizzes"`
	TotalQuestions int `json:"total_questions"`
	TotalKeywords  int `json:"total_keywords"`
}

type TopicSummary struct {
	TopicID        int64  `json:"topic_id"`
	Title          string `json:"title"`
	TotalLessons   int    `json:"total_lessons"`
	TotalQuizzes   int    `json:"total_quizzes"`
	TotalQuestions int    `json:"total_questions"`
	TotalKeywords  int    `json:"total_keywords"`
}

type Activity struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Timestamp time.Time `json:"timestamp"`
}
