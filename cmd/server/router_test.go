package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/config"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/mocks"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/service"
	"github.com/phrazzld/studygen/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

func newTestApplication(t *testing.T, gen *mocks.MockGenerationService, sub *mocks.MockSubscriptionService) (*application, uuid.UUID) {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	userID := uuid.New()

	jwtService := &mocks.MockJWTService{
		Token: validToken,
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if token != validToken {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: userID}, nil
		},
	}
	passwords := &mocks.MockPasswords{ShouldSucceed: true}

	if gen == nil {
		gen = &mocks.MockGenerationService{}
	}
	if sub == nil {
		sub = &mocks.MockSubscriptionService{}
	}

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{
				Port:           8080,
				LogLevel:       "debug",
				BaseURL:        "http://127.0.0.1:8080",
				AllowedOrigins: []string{"http://localhost:3000"},
			},
			Auth: config.AuthConfig{TokenLifetimeMinutes: 60, RefreshTokenLifetimeMinutes: 120},
		},
		logger:              log,
		userStore:           mocks.NewMockUserStore(),
		jwtService:          jwtService,
		passwordVerifier:    passwords,
		passwordHasher:      passwords,
		generationService:   gen,
		subscriptionService: sub,
	}, userID
}

func TestRouter_Health(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Index(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="inputText"`)
}

func TestRouter_GenerateRequiresLogin(t *testing.T) {
	gen := &mocks.MockGenerationService{
		GenerateFn: func(context.Context, uuid.UUID, string, string) (*service.GenerationResult, error) {
			t.Fatal("generation must not run without a token")
			return nil, nil
		},
	}
	app, _ := newTestApplication(t, gen, nil)
	router := app.setupRouter()

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "bad token", header: "Bearer nope"},
		{name: "wrong scheme", header: "Basic " + validToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"text":"x","mode":"quiz"}`))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Login required.", body["error"])
		})
	}
}

func TestRouter_GenerateAuthenticated(t *testing.T) {
	var gotUser uuid.UUID
	remaining := 4
	gen := &mocks.MockGenerationService{
		GenerateFn: func(_ context.Context, userID uuid.UUID, text, mode string) (*service.GenerationResult, error) {
			gotUser = userID
			assert.Equal(t, "photosynthesis", text)
			assert.Equal(t, "flashcards", mode)
			return &service.GenerationResult{
				Mode:       domain.ModeFlashcards,
				Flashcards: []domain.Flashcard{{Question: "What?", Answer: "Light."}},
				Remaining:  &remaining,
			}, nil
		},
	}
	app, userID := newTestApplication(t, gen, nil)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/generate",
		strings.NewReader(`{"text":"photosynthesis","mode":"flashcards"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+validToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"flashcards":[["What?","Light."]],"remaining":4}`, rec.Body.String())
	assert.Equal(t, userID, gotUser)
}

func TestRouter_VerifyIsPublic(t *testing.T) {
	until := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	sub := &mocks.MockSubscriptionService{
		VerifyFn: func(_ context.Context, reference string) (*service.SubscriptionResult, error) {
			assert.Equal(t, "ref-123", reference)
			return &service.SubscriptionResult{UserID: uuid.New(), SubscribedUntil: until}, nil
		},
	}
	app, _ := newTestApplication(t, nil, sub)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/verify?reference=ref-123", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Subscription successful!")
}

func TestRouter_SubscribeRequiresLogin(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscribe", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_BrowserSession(t *testing.T) {
	gen := &mocks.MockGenerationService{
		GenerateFn: func(context.Context, uuid.UUID, string, string) (*service.GenerationResult, error) {
			return &service.GenerationResult{
				Mode: domain.ModeQuiz,
				Quiz: []domain.QuizQuestion{{Question: "Which?", Options: []string{"A", "B", "C", "D"}}},
			}, nil
		},
	}
	app, userID := newTestApplication(t, gen, nil)
	app.userStore = mocks.NewMockUserStore(&domain.User{ID: userID, Email: "student@example.com", HashedPassword: "hash"})
	router := app.setupRouter()

	form := url.Values{"email": {"Student@example.com"}, "password": {"correct horse battery"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, validToken, cookies[0].Value)

	// The page script posts JSON with the cookie and no Authorization header.
	req = httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"text":"notes","mode":"quiz"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"quiz":[{"question":"Which?","options":["A","B","C","D"]}]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Empty(t, rec.Result().Cookies()[0].Value)
}

func TestRouter_BrowserSubscribeWithoutSession(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "notice=Please+log+in+to+continue.")
}

func TestRouter_PageScript(t *testing.T) {
	app, _ := newTestApplication(t, nil, nil)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
}
