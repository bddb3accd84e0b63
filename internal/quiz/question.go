package quiz

import (
	"ForestEdu/internal/app_errors"
	"fmt"
)

const MinOptions = 2

// Question is a single multiple-choice item. Construct it with NewQuestion so the
// correct index is known to point into Options.
type Question struct {
	ID                 int64    `json:"id"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

func NewQuestion(id int64, prompt string, options []string, correctOptionIndex int) (Question, error) {
	q := Question{
		ID:                 id,
		Prompt:             prompt,
		Options:            append([]string(nil), options...),
		CorrectOptionIndex: correctOptionIndex,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (q Question) Validate() error {
	if len(q.Options) < MinOptions {
		return fmt.Errorf("%w: question %d has %d options, need at least %d", app_errors.ErrInvalidArgument, q.ID, len(q.Options), MinOptions)
	}
	if !q.HasOption(q.CorrectOptionIndex) {
		return fmt.Errorf("%w: question %d correct option %d out of range [0,%d)", app_errors.ErrInvalidArgument, q.ID, q.CorrectOptionIndex, len(q.Options))
	}
	return nil
}

func (q Question) HasOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}

func (q Question) clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
