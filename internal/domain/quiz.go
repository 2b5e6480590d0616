package domain

import (
	"fmt"
	"slices"
	"strings"
)

// MinQuizOptions is the smallest number of options a quiz question may offer.
const MinQuizOptions = 2

// QuizQuestion is a multiple-choice question with ordered options.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`

	// Answer is the correct option, when the generator supplied one.
	Answer string `json:"answer,omitempty"`
}

// Validate checks the question text, the option count and that the answer,
// when set, is one of the options.
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: question is empty", ErrInvalidQuizQuestion)
	}
	if len(q.Options) < MinQuizOptions {
		return fmt.Errorf("%w: need at least %d options, got %d",
			ErrInvalidQuizQuestion, MinQuizOptions, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is empty", ErrInvalidQuizQuestion, i)
		}
	}
	if q.Answer != "" && !slices.Contains(q.Options, q.Answer) {
		return fmt.Errorf("%w: answer %q is not one of the options", ErrInvalidQuizQuestion, q.Answer)
	}
	return nil
}
