package service

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
	"github.com/phrazzld/studygen/internal/generation"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/store"
)

// DefaultFlashcardListLimit caps ListFlashcards when no limit is given.
const DefaultFlashcardListLimit = 100

// GenerationResult is the outcome of one generation request. Exactly one of
// Flashcards or Quiz is set, matching Mode.
type GenerationResult struct {
	Mode       domain.Mode
	Flashcards []domain.Flashcard
	Quiz       []domain.QuizQuestion

	// Remaining is the number of free prompts left. It is nil for subscribers.
	Remaining *int
}

// GenerationService generates study material for authenticated users.
type GenerationService interface {
	// Generate checks the user's quota, validates the request and produces
	// flashcards or a quiz. Flashcards are saved for the user and the prompt
	// is counted in the same transaction.
	Generate(ctx context.Context, userID uuid.UUID, text, mode string) (*GenerationResult, error)

	// ListFlashcards returns the user's saved flashcards, newest first.
	ListFlashcards(ctx context.Context, userID uuid.UUID, limit int) ([]store.SavedFlashcard, error)
}

// GenerationServiceImpl implements GenerationService.
type GenerationServiceImpl struct {
	users     store.UserStore
	cards     store.FlashcardStore
	txRunner  store.TxRunner
	generator generation.Generator
	freeLimit int
	price     domain.Price
	now       func() time.Time
	logger    *slog.Logger
}

var _ GenerationService = (*GenerationServiceImpl)(nil)

// NewGenerationService creates a GenerationService.
func NewGenerationService(
	users store.UserStore,
	cards store.FlashcardStore,
	txRunner store.TxRunner,
	generator generation.Generator,
	freeLimit int,
	price domain.Price,
	logger *slog.Logger,
) *GenerationServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationServiceImpl{
		users:     users,
		cards:     cards,
		txRunner:  txRunner,
		generator: generator,
		freeLimit: freeLimit,
		price:     price,
		now:       time.Now,
		logger:    logger.With("component", "generation_service"),
	}
}

// WithClock replaces the time source. It is intended for tests.
func (s *GenerationServiceImpl) WithClock(now func() time.Time) *GenerationServiceImpl {
	s.now = now
	return s
}

// Generate implements GenerationService.
func (s *GenerationServiceImpl) Generate(
	ctx context.Context,
	userID uuid.UUID,
	text, mode string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("user_id", userID)
	now := s.now().UTC()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Quota is checked before the request itself, so an exhausted user is
	// told to subscribe even when the request is also invalid.
	if !user.CanGenerate(now, s.freeLimit) {
		log.Info("generation refused: free prompts used up", "prompts_used", user.PromptsUsed)
		return nil, &QuotaError{Price: s.price}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	m, err := domain.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{Mode: m}
	switch m {
	case domain.ModeFlashcards:
		result.Flashcards, err = s.generator.GenerateFlashcards(ctx, text)
	case domain.ModeQuiz:
		result.Quiz, err = s.generator.GenerateQuiz(ctx, text)
	}
	if err != nil {
		log.Error("generation failed", "mode", m, "error", err)
		return nil, err
	}

	var used int
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		used, err = s.users.WithTx(tx).IncrementPromptsUsed(ctx, userID, s.freeLimit, now)
		if err != nil {
			return err
		}
		if m == domain.ModeFlashcards {
			_, err = s.cards.WithTx(tx).CreateMany(ctx, userID, result.Flashcards)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrPromptLimitReached) {
			// A concurrent request spent the last prompt first.
			return nil, &QuotaError{Price: s.price}
		}
		log.Error("failed to record generation", "error", err)
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}

	if !user.IsSubscribed(now) {
		remaining := max(s.freeLimit-used, 0)
		result.Remaining = &remaining
	}

	log.Info("content generated",
		"mode", m,
		"flashcards", len(result.Flashcards),
		"quiz_questions", len(result.Quiz),
		"prompts_used", used)
	return result, nil
}

// ListFlashcards implements GenerationService.
func (s *GenerationServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]store.SavedFlashcard, error) {
	if limit <= 0 || limit > DefaultFlashcardListLimit {
		limit = DefaultFlashcardListLimit
	}
	cards, err := s.cards.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcards: %w", err)
	}
	return cards, nil
}
