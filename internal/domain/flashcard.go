package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Flashcard is a question/answer pair.
//
// On the wire a flashcard is a two-element JSON array: ["question", "answer"].
type Flashcard struct {
	Question string
	Answer   string
}

// Validate reports whether both sides of the card are present.
func (f Flashcard) Validate() error {
	if strings.TrimSpace(f.Question) == "" {
		return fmt.Errorf("%w: question is empty", ErrInvalidFlashcard)
	}
	if strings.TrimSpace(f.Answer) == "" {
		return fmt.Errorf("%w: answer is empty", ErrInvalidFlashcard)
	}
	return nil
}

// MarshalJSON encodes the card as [question, answer].
func (f Flashcard) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{f.Question, f.Answer})
}

// UnmarshalJSON decodes a [question, answer] array.
func (f *Flashcard) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: expected [question, answer]: %v", ErrInvalidFlashcard, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: expected 2 elements, got %d", ErrInvalidFlashcard, len(pair))
	}
	f.Question, f.Answer = pair[0], pair[1]
	return nil
}
