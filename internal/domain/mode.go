package domain

import "strings"

// Mode selects whether generation produces flashcards or a quiz.
type Mode string

const (
	ModeFlashcards Mode = "flashcards"
	ModeQuiz       Mode = "quiz"
)

// ParseMode validates s as a Mode. An empty string selects flashcards.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "", ModeFlashcards:
		return ModeFlashcards, nil
	case ModeQuiz:
		return ModeQuiz, nil
	default:
		return "", ErrInvalidMode
	}
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}
