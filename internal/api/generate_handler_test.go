package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/generation"
	"github.com/phrazzld/studygen/internal/mocks"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/service"
	"github.com/phrazzld/studygen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerateHandler(t *testing.T, svc *mocks.MockGenerationService) *GenerateHandler {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	return NewGenerateHandler(svc, log)
}

func intPtr(n int) *int { return &n }

func TestGenerateFlashcards(t *testing.T) {
	userID := uuid.New()
	var gotText, gotMode string
	svc := &mocks.MockGenerationService{
		GenerateFn: func(_ context.Context, id uuid.UUID, text, mode string) (*service.GenerationResult, error) {
			assert.Equal(t, userID, id)
			gotText, gotMode = text, mode
			return &service.GenerationResult{
				Mode:       domain.ModeFlashcards,
				Flashcards: []domain.Flashcard{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}},
				Remaining:  intPtr(4),
			}, nil
		},
	}

	w := httptest.NewRecorder()
	newGenerateHandler(t, svc).Generate(w, newRequest(t, http.MethodPost, "/generate",
		shared.GenerateRequest{Text: "cells", Mode: "flashcards"}, userID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flashcards":[["Q1","A1"],["Q2","A2"]],"remaining":4}`, w.Body.String())
	assert.Equal(t, "cells", gotText)
	assert.Equal(t, "flashcards", gotMode)
}

func TestGenerateQuizForSubscriber(t *testing.T) {
	svc := &mocks.MockGenerationService{
		GenerateFn: func(context.Context, uuid.UUID, string, string) (*service.GenerationResult, error) {
			return &service.GenerationResult{
				Mode: domain.ModeQuiz,
				Quiz: []domain.QuizQuestion{{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"}},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	newGenerateHandler(t, svc).Generate(w, newRequest(t, http.MethodPost, "/generate",
		shared.GenerateRequest{Text: "math", Mode: "quiz"}, uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"quiz":[{"question":"2+2?","options":["3","4"],"answer":"4"}]}`, w.Body.String())
}

func TestGenerateErrors(t *testing.T) {
	price, err := domain.NewPrice("299", "KES", "Ksh")
	require.NoError(t, err)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"quota", &service.QuotaError{Price: price}, http.StatusPaymentRequired,
			`{"error":"Limit reached. Please subscribe for 1 month at Ksh 299."}`},
		{"empty text", domain.ErrEmptyText, http.StatusBadRequest, `{"error":"No input text provided."}`},
		{"invalid mode", domain.ErrInvalidMode, http.StatusBadRequest, `{"error":"Invalid mode"}`},
		{"model failure", generation.ErrTransientFailure, http.StatusBadGateway,
			`{"error":"Failed to generate content. Please try again."}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockGenerationService{
				GenerateFn: func(context.Context, uuid.UUID, string, string) (*service.GenerationResult, error) {
					return nil, tc.err
				},
			}
			w := httptest.NewRecorder()
			newGenerateHandler(t, svc).Generate(w, newRequest(t, http.MethodPost, "/generate",
				shared.GenerateRequest{Text: "x", Mode: "essay"}, uuid.New()))

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestGenerateEmptyBodyReachesService(t *testing.T) {
	called := false
	svc := &mocks.MockGenerationService{
		GenerateFn: func(_ context.Context, _ uuid.UUID, text, mode string) (*service.GenerationResult, error) {
			called = true
			assert.Empty(t, text)
			return nil, domain.ErrEmptyText
		},
	}

	w := httptest.NewRecorder()
	newGenerateHandler(t, svc).Generate(w, newRequest(t, http.MethodPost, "/generate", nil, uuid.New()))

	assert.True(t, called)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateRequiresUser(t *testing.T) {
	w := httptest.NewRecorder()
	newGenerateHandler(t, &mocks.MockGenerationService{}).Generate(w,
		newRequest(t, http.MethodPost, "/generate", shared.GenerateRequest{Text: "x"}, uuid.Nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Login required."}`, w.Body.String())
}

func TestListFlashcards(t *testing.T) {
	userID := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cardID := uuid.New()
	var gotLimit int
	svc := &mocks.MockGenerationService{
		ListFlashcardsFn: func(_ context.Context, id uuid.UUID, limit int) ([]store.SavedFlashcard, error) {
			gotLimit = limit
			return []store.SavedFlashcard{{
				ID: cardID, UserID: id, Card: domain.Flashcard{Question: "Q", Answer: "A"}, CreatedAt: created,
			}}, nil
		},
	}
	h := newGenerateHandler(t, svc)

	w := httptest.NewRecorder()
	h.ListFlashcards(w, newRequest(t, http.MethodGet, "/api/flashcards?limit=10", nil, userID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, gotLimit)

	resp := decodeBody[FlashcardListResponse](t, w)
	require.Len(t, resp.Flashcards, 1)
	assert.Equal(t, FlashcardItem{ID: cardID, Question: "Q", Answer: "A", CreatedAt: created}, resp.Flashcards[0])

	w = httptest.NewRecorder()
	h.ListFlashcards(w, newRequest(t, http.MethodGet, "/api/flashcards?limit=-1", nil, userID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
