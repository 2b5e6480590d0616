package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/service"
)

// GenerateHandler serves POST /generate and the saved flashcard list.
type GenerateHandler struct {
	generationService service.GenerationService
	logger            *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(generationService service.GenerationService, logger *slog.Logger) *GenerateHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerateHandler")
	}
	return &GenerateHandler{
		generationService: generationService,
		logger:            logger.With(slog.String("component", "generate_handler")),
	}
}

// Generate handles POST /generate. The body is {"text", "mode"}; the response
// is {"flashcards"} or {"quiz"} with "remaining", or {"error"}.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req shared.GenerateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	// An empty body still reaches the service so the quota check runs first.
	result, err := h.generationService.Generate(r.Context(), userID, req.Text, req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, MsgGenerationFailed)
		return
	}

	switch result.Mode {
	case domain.ModeQuiz:
		shared.RespondWithJSON(w, r, http.StatusOK, shared.QuizResponse{
			Quiz:      nonNil(result.Quiz),
			Remaining: result.Remaining,
		})
	default:
		shared.RespondWithJSON(w, r, http.StatusOK, shared.FlashcardsResponse{
			Flashcards: nonNil(result.Flashcards),
			Remaining:  result.Remaining,
		})
	}
}

// ListFlashcards handles GET /api/flashcards?limit=N.
func (h *GenerateHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	cards, err := h.generationService.ListFlashcards(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardsToResponse(cards))
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
