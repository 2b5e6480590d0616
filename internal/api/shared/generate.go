package shared

import "github.com/phrazzld/studygen/internal/domain"

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// FlashcardsResponse is returned by POST /generate in flashcards mode. Each
// card is encoded as a ["question", "answer"] pair.
type FlashcardsResponse struct {
	Flashcards []domain.Flashcard `json:"flashcards"`
	Remaining  *int               `json:"remaining,omitempty"`
}

// QuizResponse is returned by POST /generate in quiz mode.
type QuizResponse struct {
	Quiz      []domain.QuizQuestion `json:"quiz"`
	Remaining *int                  `json:"remaining,omitempty"`
}

// GenerateResponse is the union of every /generate body as a client reads
// it. A nil slice means the field was absent or null.
type GenerateResponse struct {
	Flashcards []domain.Flashcard    `json:"flashcards,omitempty"`
	Quiz       []domain.QuizQuestion `json:"quiz,omitempty"`
	Remaining  *int                  `json:"remaining,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// HasError reports whether the server returned an application error.
func (r *GenerateResponse) HasError() bool {
	return r.Error != ""
}
