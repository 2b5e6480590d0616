package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/ui"
)

// PageHandler serves the index page and the health check.
type PageHandler struct {
	logger *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{logger: logger.With(slog.String("component", "page_handler"))}
}

// Index handles GET /. ?form=register shows the registration form, and
// ?notice= with ?level= displays a message such as a payment result.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	page, err := ui.LoadIndex()
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render page")
		return
	}

	q := r.URL.Query()
	if err := ui.ParseFormView(q.Get("form")).Apply(page); err != nil {
		HandleAPIError(w, r, err, "Failed to render page")
		return
	}
	if notice := q.Get("notice"); notice != "" {
		if err := page.ShowNotice(notice, noticeLevel(q.Get("level"))); err != nil {
			log.Warn("page has no notice element", "error", err)
		}
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		HandleAPIError(w, r, err, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debug("failed to write page", "error", err)
	}
}

// Health handles GET /health.
func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// noticeLevel keeps the level to known CSS classes.
func noticeLevel(level string) string {
	switch level {
	case NoticeLevelOK, NoticeLevelError, NoticeLevelInfo, "warning":
		return level
	default:
		return NoticeLevelInfo
	}
}
