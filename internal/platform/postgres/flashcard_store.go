package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/store"
)

// PostgresFlashcardStore implements store.FlashcardStore on PostgreSQL.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a FlashcardStore. A nil logger selects slog.Default.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// CreateMany implements store.FlashcardStore.CreateMany
func (s *PostgresFlashcardStore) CreateMany(
	ctx context.Context,
	userID uuid.UUID,
	cards []domain.Flashcard,
) ([]store.SavedFlashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil, nil
	}
	for i, c := range cards {
		if err := c.Validate(); err != nil {
			log.Warn("flashcard validation failed", slog.Int("index", i), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: card %d: %v", store.ErrInvalidEntity, i, err)
		}
	}

	now := time.Now().UTC()
	saved := make([]store.SavedFlashcard, len(cards))
	placeholders := make([]string, len(cards))
	args := make([]any, 0, len(cards)*5)
	for i, c := range cards {
		saved[i] = store.SavedFlashcard{ID: uuid.New(), UserID: userID, Card: c, CreatedAt: now}
		n := i * 5
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, saved[i].ID, userID, c.Question, c.Answer, now)
	}

	query := `INSERT INTO flashcards (id, user_id, question, answer, created_at) VALUES ` +
		strings.Join(placeholders, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("count", len(cards)))
		if IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, userID)
		}
		return nil, MapError(err)
	}

	log.Info("flashcards created",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return saved, nil
}

// ListByUser implements store.FlashcardStore.ListByUser
func (s *PostgresFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) (cards []store.SavedFlashcard, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, question, answer, created_at
		FROM flashcards
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for rows.Next() {
		var c store.SavedFlashcard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Card.Question, &c.Card.Answer, &c.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, MapError(err)
	}

	return cards, nil
}
