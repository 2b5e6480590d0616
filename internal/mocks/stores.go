package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/store"
)

// MockFlashcardStore implements store.FlashcardStore in memory.
type MockFlashcardStore struct {
	CreateManyFn func(ctx context.Context, userID uuid.UUID, cards []domain.Flashcard) ([]store.SavedFlashcard, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID, limit int) ([]store.SavedFlashcard, error)

	mu    sync.Mutex
	Saved []store.SavedFlashcard
}

var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.
func (m *MockFlashcardStore) WithTx(*sql.Tx) store.FlashcardStore { return m }

// CreateMany implements store.FlashcardStore.
func (m *MockFlashcardStore) CreateMany(ctx context.Context, userID uuid.UUID, cards []domain.Flashcard) ([]store.SavedFlashcard, error) {
	if m.CreateManyFn != nil {
		return m.CreateManyFn(ctx, userID, cards)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]store.SavedFlashcard, len(cards))
	for i, c := range cards {
		saved[i] = store.SavedFlashcard{ID: uuid.New(), UserID: userID, Card: c, CreatedAt: time.Now().UTC()}
	}
	m.Saved = append(m.Saved, saved...)
	return saved, nil
}

// ListByUser implements store.FlashcardStore.
func (m *MockFlashcardStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]store.SavedFlashcard, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.SavedFlashcard
	for i := len(m.Saved) - 1; i >= 0 && len(out) < limit; i-- {
		if m.Saved[i].UserID == userID {
			out = append(out, m.Saved[i])
		}
	}
	return out, nil
}

// MockPaymentStore implements store.PaymentStore in memory, rejecting
// repeated references like the database does.
type MockPaymentStore struct {
	CreateFn func(ctx context.Context, payment *domain.Payment) error

	mu       sync.Mutex
	Payments map[string]*domain.Payment
}

var _ store.PaymentStore = (*MockPaymentStore)(nil)

// WithTx implements store.PaymentStore.
func (m *MockPaymentStore) WithTx(*sql.Tx) store.PaymentStore { return m }

// Create implements store.PaymentStore.
func (m *MockPaymentStore) Create(ctx context.Context, payment *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Payments == nil {
		m.Payments = make(map[string]*domain.Payment)
	}
	if _, exists := m.Payments[payment.Reference]; exists {
		return store.ErrPaymentExists
	}
	m.Payments[payment.Reference] = payment
	return nil
}

// MockTxRunner implements store.TxRunner by calling fn with a nil
// transaction. Mock stores ignore the transaction.
type MockTxRunner struct {
	Err   error
	Calls int

	mu sync.Mutex
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTransaction implements store.TxRunner.
func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
