package models

import "time"

type Quiz struct {
	ID        int64      `json:"id"`
	TopicID   int64      `json:"topic_id"`
	LessonID  *int64     `json:"lesson_id,omitempty"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Question is the stored row. It is converted to quiz.Question before a learner
// sees it, which rejects rows whose correct answer does not point at an option.
type Question struct {
	ID            int64     `json:"id"`
	QuizID        int64     `json:"quiz_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type QuestionInput struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer int      `json:"correct_answer"`
}

type TopicQuizzesStats struct {
	TotalQuizzes   int    `json:"total_quizzes"`
	TotalQuestions int    `json:"total_questions"`
	EstimatedTime  int    `json:"estimated_time"`
	Quizzes        []Quiz `json:"quizzes"`
}
