// Package attempt hosts quiz sessions between HTTP requests. Each attempt is
// a quiz.Session plus the source it was built from, stored under a random id.
package attempt

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"ForestEdu/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SourceQuiz   = "quiz"
	SourceLesson = "lesson"
)

type questionRepo interface {
	QuestionsByQuiz(ctx context.Context, quizID int64) ([]quiz.Question, error)
	QuestionsByLesson(ctx context.Context, lessonID int64) ([]quiz.Question, error)
}

type attemptRepo interface {
	CreateAttempt(ctx context.Context, a models.QuizAttempt) error
	AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error)
	UpdateAttempt(ctx context.Context, id uuid.UUID, fn func(*models.QuizAttempt) error) (*models.QuizAttempt, error)
	DeleteAttempt(ctx context.Context, id uuid.UUID) error
	DeleteExpiredAttempts(ctx context.Context, now time.Time) (int64, error)
}

// AttemptService keeps in-progress attempts alive for ttl after their last
// write. Submitted attempts are kept without a deadline. A ttl of zero or less
// disables expiry.
type AttemptService struct {
	log       logger.Log
	questions questionRepo
	attempts  attemptRepo
	ttl       time.Duration
	now       func() time.Time
	newID     func() uuid.UUID
}

func NewAttemptService(log logger.Log, questions questionRepo, attempts attemptRepo, ttl time.Duration) *AttemptService {
	return &AttemptService{
		log:       log,
		questions: questions,
		attempts:  attempts,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.New,
	}
}

func (s *AttemptService) deadline(now time.Time) *time.Time {
	if s.ttl <= 0 {
		return nil
	}
	t := now.Add(s.ttl)
	return &t
}

func expired(a *models.QuizAttempt, now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}

// parseID maps ids that cannot name an attempt to not found.
func parseID(attemptID string) (uuid.UUID, error) {
	id, err := uuid.Parse(attemptID)
	if err != nil {
		return uuid.Nil, app_errors.ErrAttemptNotFound
	}
	return id, nil
}

func (s *AttemptService) fetch(ctx context.Context, src models.AttemptSource) ([]quiz.Question, error) {
	switch src.Kind {
	case SourceQuiz:
		return s.questions.QuestionsByQuiz(ctx, src.ID)
	case SourceLesson:
		return s.questions.QuestionsByLesson(ctx, src.ID)
	default:
		return nil, fmt.Errorf("%w: unknown attempt source %q", app_errors.ErrInvalidArgument, src.Kind)
	}
}

func (s *AttemptService) begin(ctx context.Context, src models.AttemptSource) (*View, error) {
	questions, err := s.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	session, err := quiz.Start(questions)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := models.QuizAttempt{
		ID:        s.newID(),
		Source:    src,
		Session:   session,
		StartedAt: now,
		UpdatedAt: now,
		ExpiresAt: s.deadline(now),
	}
	if err := s.attempts.CreateAttempt(ctx, a); err != nil {
		return nil, err
	}
	s.log.Debug("quiz attempt started",
		"attempt_id", a.ID,
		"source", src.Kind,
		"source_id", src.ID,
		"questions", len(questions),
	)
	return newView(&a), nil
}

func (s *AttemptService) load(ctx context.Context, attemptID string) (*models.QuizAttempt, error) {
	id, err := parseID(attemptID)
	if err != nil {
		return nil, err
	}
	a, err := s.attempts.AttemptByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expired(a, s.now()) {
		return nil, app_errors.ErrAttemptNotFound
	}
	return a, nil
}

// update applies fn to the session under the repository's row lock. A failed
// transition leaves the stored attempt and its deadline untouched.
func (s *AttemptService) update(ctx context.Context, attemptID string, fn func(quiz.Session) (quiz.Session, error)) (*models.QuizAttempt, error) {
	id, err := parseID(attemptID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.attempts.UpdateAttempt(ctx, id, func(a *models.QuizAttempt) error {
		if expired(a, now) {
			return app_errors.ErrAttemptNotFound
		}
		session, err := fn(a.Session)
		if err != nil {
			return err
		}
		a.Session = session
		a.UpdatedAt = now
		if session.Status() == quiz.StatusSubmitted {
			a.ExpiresAt = nil
		} else {
			a.ExpiresAt = s.deadline(now)
		}
		return nil
	})
}

// Start opens an attempt over the questions of one quiz.
func (s *AttemptService) Start(ctx context.Context, quizID int64) (*View, error) {
	return s.begin(ctx, models.AttemptSource{Kind: SourceQuiz, ID: quizID})
}

// StartLesson opens an attempt over every question of every quiz of a lesson.
func (s *AttemptService) StartLesson(ctx context.Context, lessonID int64) (*View, error) {
	return s.begin(ctx, models.AttemptSource{Kind: SourceLesson, ID: lessonID})
}

func (s *AttemptService) Get(ctx context.Context, attemptID string) (*View, error) {
	a, err := s.load(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	return newView(a), nil
}

func (s *AttemptService) Answer(ctx context.Context, attemptID string, questionID int64, optionIndex int) (*View, error) {
	a, err := s.update(ctx, attemptID, func(session quiz.Session) (quiz.Session, error) {
		return session.RecordAnswer(questionID, optionIndex)
	})
	if err != nil {
		return nil, err
	}
	return newView(a), nil
}

func (s *AttemptService) Submit(ctx context.Context, attemptID string) (*View, error) {
	var report quiz.ScoreReport
	a, err := s.update(ctx, attemptID, func(session quiz.Session) (quiz.Session, error) {
		next, r, err := session.Submit()
		if err != nil {
			return session, err
		}
		report = r
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quiz attempt submitted",
		"attempt_id", a.ID,
		"source", a.Source.Kind,
		"source_id", a.Source.ID,
		"score", report.Score,
		"correct", report.CorrectCount,
		"total", report.TotalQuestions,
	)
	return newView(a), nil
}

// Restart re-fetches the questions of the attempt's source and opens a fresh
// attempt under a new id. The old id stops resolving.
func (s *AttemptService) Restart(ctx context.Context, attemptID string) (*View, error) {
	old, err := s.load(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	v, err := s.begin(ctx, old.Source)
	if err != nil {
		return nil, err
	}
	if err := s.attempts.DeleteAttempt(ctx, old.ID); err != nil {
		s.log.Debug("previous attempt not removed on restart",
			"attempt_id", old.ID,
			"new_attempt_id", v.AttemptID,
			logger.Err(err),
		)
	}
	return v, nil
}

func (s *AttemptService) Abandon(ctx context.Context, attemptID string) error {
	a, err := s.load(ctx, attemptID)
	if err != nil {
		return err
	}
	return s.attempts.DeleteAttempt(ctx, a.ID)
}

// Sweep deletes attempts whose deadline has passed.
func (s *AttemptService) Sweep(ctx context.Context) (int64, error) {
	return s.attempts.DeleteExpiredAttempts(ctx, s.now())
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *AttemptService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				s.log.ErrorErr("failed to sweep expired quiz attempts", err)
				continue
			}
			if removed > 0 {
				s.log.Debug("expired quiz attempts removed", "count", removed)
			}
		}
	}
}
