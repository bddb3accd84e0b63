package models

import (
	"ForestEdu/internal/quiz"
	"time"

	"github.com/google/uuid"
)

type AttemptSource struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// QuizAttempt is a quiz session kept between requests. ExpiresAt is nil for
// attempts that never expire, which includes every submitted one.
type QuizAttempt struct {
	ID        uuid.UUID
	Source    AttemptSource
	Session   quiz.Session
	StartedAt time.Time
	UpdatedAt time.Time
	ExpiresAt *time.Time
}
