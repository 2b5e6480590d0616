package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The caller hashes the password first.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// IncrementPromptsUsed records one generation for the user and returns the
	// new count. The increment only happens while the user is subscribed at now
	// or has used fewer than limit prompts; otherwise ErrPromptLimitReached is
	// returned and nothing changes.
	IncrementPromptsUsed(ctx context.Context, id uuid.UUID, limit int, now time.Time) (int, error)

	// ExtendSubscription adds d to the later of now and the current expiry
	// in a single update, and returns the new expiry. Concurrent extensions
	// each add their full length.
	// Returns ErrUserNotFound if the user does not exist.
	ExtendSubscription(ctx context.Context, id uuid.UUID, now time.Time, d time.Duration) (time.Time, error)

	// WithTx returns a UserStore that runs its queries in tx.
	WithTx(tx *sql.Tx) UserStore
}
