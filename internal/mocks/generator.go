package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/generation"
)

// MockGenerator implements generation.Generator. Without function fields it
// returns Flashcards, Quiz and Err.
type MockGenerator struct {
	GenerateFlashcardsFn func(ctx context.Context, text string) ([]domain.Flashcard, error)
	GenerateQuizFn       func(ctx context.Context, text string) ([]domain.QuizQuestion, error)

	Flashcards []domain.Flashcard
	Quiz       []domain.QuizQuestion
	Err        error

	mu    sync.Mutex
	Texts []string
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateFlashcards implements generation.Generator.
func (m *MockGenerator) GenerateFlashcards(ctx context.Context, text string) ([]domain.Flashcard, error) {
	m.record(text)
	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, text)
	}
	return m.Flashcards, m.Err
}

// GenerateQuiz implements generation.Generator.
func (m *MockGenerator) GenerateQuiz(ctx context.Context, text string) ([]domain.QuizQuestion, error) {
	m.record(text)
	if m.GenerateQuizFn != nil {
		return m.GenerateQuizFn(ctx, text)
	}
	return m.Quiz, m.Err
}

// CallCount returns how many generations were requested.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Texts)
}

func (m *MockGenerator) record(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Texts = append(m.Texts, text)
}
