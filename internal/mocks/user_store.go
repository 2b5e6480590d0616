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

// MockUserStore implements store.UserStore over an in-memory map keyed by
// email. Function fields override the default behaviour.
type MockUserStore struct {
	CreateFn               func(ctx context.Context, user *domain.User) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	IncrementPromptsUsedFn func(ctx context.Context, id uuid.UUID, limit int, now time.Time) (int, error)
	ExtendSubscriptionFn   func(ctx context.Context, id uuid.UUID, now time.Time, d time.Duration) (time.Time, error)

	mu    sync.Mutex
	Users map[string]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a MockUserStore holding users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{Users: make(map[string]*domain.User)}
	for _, u := range users {
		m.Users[u.Email] = u
	}
	return m
}

// WithTx implements store.UserStore. The mock has no transactions.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.Users[user.Email] = user
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(id)
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// IncrementPromptsUsed implements store.UserStore with the same quota rule
// as the database.
func (m *MockUserStore) IncrementPromptsUsed(ctx context.Context, id uuid.UUID, limit int, now time.Time) (int, error) {
	if m.IncrementPromptsUsedFn != nil {
		return m.IncrementPromptsUsedFn(ctx, id, limit, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, err := m.findLocked(id)
	if err != nil {
		return 0, err
	}
	if !user.CanGenerate(now, limit) {
		return 0, store.ErrPromptLimitReached
	}
	user.PromptsUsed++
	return user.PromptsUsed, nil
}

// ExtendSubscription implements store.UserStore. The read and the write
// happen under one lock, like the single UPDATE in Postgres.
func (m *MockUserStore) ExtendSubscription(ctx context.Context, id uuid.UUID, now time.Time, d time.Duration) (time.Time, error) {
	if m.ExtendSubscriptionFn != nil {
		return m.ExtendSubscriptionFn(ctx, id, now, d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, err := m.findLocked(id)
	if err != nil {
		return time.Time{}, err
	}
	until := user.SubscriptionExtendedBy(now, d)
	user.SubscribedUntil = &until
	return until, nil
}

func (m *MockUserStore) findLocked(id uuid.UUID) (*domain.User, error) {
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}
