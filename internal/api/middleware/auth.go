package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/redact"
	"github.com/phrazzld/studygen/internal/service/auth"
)

// LoginRequiredMessage is the error body for unauthenticated requests.
const LoginRequiredMessage = "Login required."

// LoginPromptNotice is shown when a browser is sent back to log in.
const LoginPromptNotice = "Please log in to continue."

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate requires a valid access token, from the Authorization header
// or else the session cookie, and stores its user ID in the request context.
// Every authentication failure gets the same 401 body, or a redirect to the
// login form for browser navigations; the reason is only logged.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			token, ok = shared.SessionToken(r)
		}
		if !ok {
			unauthenticated(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrExpiredToken),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrTokenNotYetValid),
			errors.Is(err, auth.ErrWrongTokenType):
			log.Debug("rejected token", "reason", err.Error())
			unauthenticated(w, r)
			return
		default:
			log.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = logger.WithLogger(ctx, log.With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	if shared.WantsHTML(r) {
		shared.RedirectWithNotice(w, r, LoginPromptNotice, "danger")
		return
	}
	shared.RespondWithError(w, r, http.StatusUnauthorized, LoginRequiredMessage)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
