package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/store"
)

// FlashcardItem is one saved flashcard in GET /api/flashcards.
type FlashcardItem struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// FlashcardListResponse is returned by GET /api/flashcards.
type FlashcardListResponse struct {
	Flashcards []FlashcardItem `json:"flashcards"`
}

// VerifyResponse is returned by GET /verify to JSON clients.
type VerifyResponse struct {
	Message         string    `json:"message"`
	SubscribedUntil time.Time `json:"subscribed_until"`
	AlreadyApplied  bool      `json:"already_applied,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func flashcardsToResponse(saved []store.SavedFlashcard) FlashcardListResponse {
	items := make([]FlashcardItem, len(saved))
	for i, s := range saved {
		items[i] = FlashcardItem{
			ID:        s.ID,
			Question:  s.Card.Question,
			Answer:    s.Card.Answer,
			CreatedAt: s.CreatedAt,
		}
	}
	return FlashcardListResponse{Flashcards: items}
}
