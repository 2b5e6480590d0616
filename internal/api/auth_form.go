package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/store"
)

// Notices shown after the index page's account forms.
const (
	NoticeRegistered = "Registration successful! Please log in."
	NoticeLoggedIn   = "Logged in successfully!"
	NoticeLoggedOut  = "Logged out successfully!"
	NoticeLevelInfo  = "info"
)

// FormRegister handles POST /register from the index page's registration
// form. The new account is not logged in.
func (h *AuthHandler) FormRegister(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		shared.RedirectWithNotice(w, r, MsgInvalidRequest, NoticeLevelError)
		return
	}

	user, err := domain.NewUser(r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		shared.RedirectWithNotice(w, r, "Invalid user data: "+err.Error(), NoticeLevelError)
		return
	}

	if err := h.storeNewUser(r.Context(), log, user); err != nil {
		msg := "Failed to create user"
		if errors.Is(err, store.ErrEmailExists) {
			msg = MsgEmailExists
		}
		shared.RedirectWithNotice(w, r, msg, NoticeLevelError)
		return
	}
	shared.RedirectWithNotice(w, r, NoticeRegistered, NoticeLevelOK)
}

// FormLogin handles POST /login from the index page's login form and starts
// a cookie session.
func (h *AuthHandler) FormLogin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		shared.RedirectWithNotice(w, r, MsgInvalidRequest, NoticeLevelError)
		return
	}
	email := domain.NormalizeEmail(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		shared.RedirectWithNotice(w, r, MsgInvalidCredentials, NoticeLevelError)
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to look up user", "error", err)
		}
		shared.RedirectWithNotice(w, r, MsgInvalidCredentials, NoticeLevelError)
		return
	}
	if err := h.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		log.Warn("form login rejected", "user_id", user.ID)
		shared.RedirectWithNotice(w, r, MsgInvalidCredentials, NoticeLevelError)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate session token", "error", err)
		shared.RedirectWithNotice(w, r, "Failed to generate authentication token", NoticeLevelError)
		return
	}

	http.SetCookie(w, h.sessionCookie(r, token, int(h.tokenLifetime.Seconds())))
	shared.RedirectWithNotice(w, r, NoticeLoggedIn, NoticeLevelOK)
}

// Logout handles GET /logout by clearing the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie(r, "", -1))
	shared.RedirectWithNotice(w, r, NoticeLoggedOut, NoticeLevelInfo)
}

// sessionCookie is readable by the server only and is not sent on
// cross-site POSTs. A negative maxAge deletes it.
func (h *AuthHandler) sessionCookie(r *http.Request, token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}
