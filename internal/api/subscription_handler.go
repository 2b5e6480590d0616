package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/service"
)

// Notices shown on the index page after a payment redirect.
const (
	NoticeSubscribed = "Subscription successful!"
	NoticeLevelOK    = "success"
	NoticeLevelError = "danger"
)

// SubscriptionHandler starts and verifies subscription payments.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *slog.Logger
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SubscriptionHandler")
	}
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger.With(slog.String("component", "subscription_handler")),
	}
}

// Subscribe handles POST /subscribe. API clients receive the checkout URL;
// browsers are redirected to it.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	checkoutURL, err := h.subscriptionService.Start(r.Context(), userID)
	if err != nil {
		if shared.WantsHTML(r) {
			_, msg := lookupError(err)
			shared.RedirectWithNotice(w, r, msg, NoticeLevelError)
			return
		}
		HandleAPIError(w, r, err, "Failed to start checkout")
		return
	}

	if shared.WantsHTML(r) {
		http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.SubscribeResponse{AuthorizationURL: checkoutURL})
}

// Verify handles GET /verify?reference=..., the payment provider's callback.
// The customer is identified by the payment, so no session is needed.
func (h *SubscriptionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.subscriptionService.Verify(r.Context(), r.URL.Query().Get("reference"))
	if err != nil {
		if shared.WantsHTML(r) {
			_, msg := lookupError(err)
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("payment verification failed", "error", err)
			shared.RedirectWithNotice(w, r, msg, NoticeLevelError)
			return
		}
		HandleAPIError(w, r, err, MsgVerificationFailed)
		return
	}

	if shared.WantsHTML(r) {
		shared.RedirectWithNotice(w, r, NoticeSubscribed, NoticeLevelOK)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, VerifyResponse{
		Message:         NoticeSubscribed,
		SubscribedUntil: result.SubscribedUntil,
		AlreadyApplied:  result.AlreadyApplied,
	})
}
