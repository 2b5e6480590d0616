package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/service"
	"github.com/phrazzld/studygen/internal/store"
)

// MockGenerationService implements service.GenerationService.
type MockGenerationService struct {
	GenerateFn       func(ctx context.Context, userID uuid.UUID, text, mode string) (*service.GenerationResult, error)
	ListFlashcardsFn func(ctx context.Context, userID uuid.UUID, limit int) ([]store.SavedFlashcard, error)
}

var _ service.GenerationService = (*MockGenerationService)(nil)

// Generate implements service.GenerationService.
func (m *MockGenerationService) Generate(ctx context.Context, userID uuid.UUID, text, mode string) (*service.GenerationResult, error) {
	return m.GenerateFn(ctx, userID, text, mode)
}

// ListFlashcards implements service.GenerationService.
func (m *MockGenerationService) ListFlashcards(ctx context.Context, userID uuid.UUID, limit int) ([]store.SavedFlashcard, error) {
	if m.ListFlashcardsFn == nil {
		return nil, nil
	}
	return m.ListFlashcardsFn(ctx, userID, limit)
}

// MockSubscriptionService implements service.SubscriptionService.
type MockSubscriptionService struct {
	StartFn  func(ctx context.Context, userID uuid.UUID) (string, error)
	VerifyFn func(ctx context.Context, reference string) (*service.SubscriptionResult, error)
}

var _ service.SubscriptionService = (*MockSubscriptionService)(nil)

// Start implements service.SubscriptionService.
func (m *MockSubscriptionService) Start(ctx context.Context, userID uuid.UUID) (string, error) {
	return m.StartFn(ctx, userID)
}

// Verify implements service.SubscriptionService.
func (m *MockSubscriptionService) Verify(ctx context.Context, reference string) (*service.SubscriptionResult, error) {
	return m.VerifyFn(ctx, reference)
}
