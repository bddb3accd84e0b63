// Package quiz holds the state of a single quiz attempt and scores it.
//
// A Session is a value. Every transition returns a new Session and leaves the
// receiver untouched, so a reference kept by a caller never changes under it.
package quiz

import (
	"ForestEdu/internal/app_errors"
	"fmt"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

type Session struct {
	questions []Question
	position  map[int64]int
	answers   map[int64]int
	status    Status
	score     int
}

// Start opens a new attempt over questions. The slice is copied.
func Start(questions []Question) (Session, error) {
	if len(questions) == 0 {
		return Session{}, fmt.Errorf("%w: quiz has no questions", app_errors.ErrInvalidArgument)
	}

	qs := make([]Question, 0, len(questions))
	position := make(map[int64]int, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return Session{}, err
		}
		if _, dup := position[q.ID]; dup {
			return Session{}, fmt.Errorf("%w: duplicate question id %d", app_errors.ErrInvalidArgument, q.ID)
		}
		position[q.ID] = i
		qs = append(qs, q.clone())
	}

	return Session{
		questions: qs,
		position:  position,
		answers:   map[int64]int{},
		status:    StatusInProgress,
	}, nil
}

// Reset discards the current attempt and starts a fresh one.
func Reset(questions []Question) (Session, error) {
	return Start(questions)
}

// Restore rebuilds a session from stored questions, answers and status. The
// same checks as Start and RecordAnswer apply, so a stored row can never yield
// a session those operations could not have produced.
func Restore(questions []Question, answers map[int64]int, status Status) (Session, error) {
	s, err := Start(questions)
	if err != nil {
		return Session{}, err
	}
	for id, opt := range answers {
		if s, err = s.RecordAnswer(id, opt); err != nil {
			return Session{}, err
		}
	}

	switch status {
	case StatusInProgress:
		return s, nil
	case StatusSubmitted:
		s, _, err = s.Submit()
		return s, err
	default:
		return Session{}, fmt.Errorf("%w: unknown status %q", app_errors.ErrInvalidArgument, status)
	}
}

func (s Session) RecordAnswer(questionID int64, optionIndex int) (Session, error) {
	if s.status != StatusInProgress {
		return s, fmt.Errorf("%w: cannot answer in status %q", app_errors.ErrInvalidState, s.status)
	}
	pos, ok := s.position[questionID]
	if !ok {
		return s, fmt.Errorf("%w: unknown question %d", app_errors.ErrInvalidArgument, questionID)
	}
	q := s.questions[pos]
	if !q.HasOption(optionIndex) {
		return s, fmt.Errorf("%w: option %d out of range [0,%d) for question %d", app_errors.ErrInvalidArgument, optionIndex, len(q.Options), questionID)
	}

	answers := make(map[int64]int, len(s.answers)+1)
	for id, opt := range s.answers {
		answers[id] = opt
	}
	answers[questionID] = optionIndex

	next := s
	next.answers = answers
	return next, nil
}

// Submit scores the attempt and freezes it.
func (s Session) Submit() (Session, ScoreReport, error) {
	if s.status != StatusInProgress {
		return s, ScoreReport{}, fmt.Errorf("%w: cannot submit in status %q", app_errors.ErrInvalidState, s.status)
	}
	report := Evaluate(s.questions, s.answers)

	next := s
	next.status = StatusSubmitted
	next.score = report.Score
	return next, report, nil
}

// Report rebuilds the score report of a submitted session.
func (s Session) Report() (ScoreReport, error) {
	if s.status != StatusSubmitted {
		return ScoreReport{}, fmt.Errorf("%w: session not submitted", app_errors.ErrInvalidState)
	}
	return Evaluate(s.questions, s.answers), nil
}

func (s Session) Status() Status {
	return s.status
}

func (s Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.clone()
	}
	return out
}

func (s Session) Question(id int64) (Question, bool) {
	pos, ok := s.position[id]
	if !ok {
		return Question{}, false
	}
	return s.questions[pos].clone(), true
}

func (s Session) Answer(questionID int64) (int, bool) {
	opt, ok := s.answers[questionID]
	return opt, ok
}

func (s Session) Answers() map[int64]int {
	out := make(map[int64]int, len(s.answers))
	for id, opt := range s.answers {
		out[id] = opt
	}
	return out
}

func (s Session) AnsweredCount() int {
	return len(s.answers)
}

// Complete reports whether every question has an answer.
func (s Session) Complete() bool {
	return len(s.questions) > 0 && len(s.answers) == len(s.questions)
}

// Score is only set once the session is submitted.
func (s Session) Score() (int, bool) {
	if s.status != StatusSubmitted {
		return 0, false
	}
	return s.score, true
}
