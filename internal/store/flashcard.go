package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/domain"
)

// SavedFlashcard is a flashcard persisted for a user.
type SavedFlashcard struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Card      domain.Flashcard
	CreatedAt time.Time
}

// FlashcardStore defines the interface for persisting generated flashcards.
type FlashcardStore interface {
	// CreateMany saves cards for userID. All cards are validated before any
	// is written; an invalid card yields ErrInvalidEntity.
	CreateMany(ctx context.Context, userID uuid.UUID, cards []domain.Flashcard) ([]SavedFlashcard, error)

	// ListByUser returns the user's cards, newest first, at most limit rows.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]SavedFlashcard, error)

	// WithTx returns a FlashcardStore that runs its queries in tx.
	WithTx(tx *sql.Tx) FlashcardStore
}
