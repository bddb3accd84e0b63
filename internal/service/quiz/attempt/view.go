package attempt

import (
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"time"
)

const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeNeedsWork = "needs_work"

	minutesPerQuestion = 2
)

func Grade(score int) string {
	switch {
	case score >= 80:
		return GradeExcellent
	case score >= 60:
		return GradeGood
	default:
		return GradeNeedsWork
	}
}

type QuestionView struct {
	ID       int64    `json:"id"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Selected *int     `json:"selected_option_index"`

	// Only set once the attempt is submitted.
	CorrectOptionIndex *int `json:"correct_option_index,omitempty"`
}

type Result struct {
	Score          int                   `json:"score"`
	CorrectCount   int                   `json:"correct_count"`
	TotalQuestions int                   `json:"total_questions"`
	Grade          string                `json:"grade"`
	Breakdown      []quiz.QuestionResult `json:"breakdown"`
}

type View struct {
	AttemptID        string               `json:"attempt_id"`
	Source           models.AttemptSource `json:"source"`
	Status           quiz.Status          `json:"status"`
	Questions        []QuestionView       `json:"questions"`
	AnsweredCount    int                  `json:"answered_count"`
	TotalQuestions   int                  `json:"total_questions"`
	Complete         bool                 `json:"complete"`
	EstimatedMinutes int                  `json:"estimated_minutes"`
	Result           *Result              `json:"result,omitempty"`
	StartedAt        time.Time            `json:"started_at"`

	// Nil when the attempt has no deadline.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newResult(r quiz.ScoreReport) *Result {
	return &Result{
		Score:          r.Score,
		CorrectCount:   r.CorrectCount,
		TotalQuestions: r.TotalQuestions,
		Grade:          Grade(r.Score),
		Breakdown:      r.Breakdown,
	}
}

func newView(a *models.QuizAttempt) *View {
	s := a.Session
	submitted := s.Status() == quiz.StatusSubmitted
	questions := s.Questions()

	v := &View{
		AttemptID:        a.ID.String(),
		Source:           a.Source,
		Status:           s.Status(),
		Questions:        make([]QuestionView, 0, len(questions)),
		AnsweredCount:    s.AnsweredCount(),
		TotalQuestions:   len(questions),
		Complete:         s.Complete(),
		EstimatedMinutes: len(questions) * minutesPerQuestion,
		StartedAt:        a.StartedAt,
		ExpiresAt:        a.ExpiresAt,
	}

	for _, q := range questions {
		qv := QuestionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
		if selected, ok := s.Answer(q.ID); ok {
			qv.Selected = &selected
		}
		if submitted {
			correct := q.CorrectOptionIndex
			qv.CorrectOptionIndex = &correct
		}
		v.Questions = append(v.Questions, qv)
	}

	if submitted {
		if report, err := s.Report(); err == nil {
			v.Result = newResult(report)
		}
	}
	return v
}
