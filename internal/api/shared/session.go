package shared

import (
	"net/http"
	"net/url"
	"strings"
)

// SessionCookieName is the cookie holding a browser's access token.
const SessionCookieName = "studygen_session"

// WantsHTML reports whether the request comes from a browser navigation
// rather than an API client.
func WantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// SessionToken returns the access token from the session cookie.
func SessionToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", false
	}
	return strings.TrimSpace(c.Value), true
}

// RedirectWithNotice sends a browser back to the index page showing notice
// at the given level.
func RedirectWithNotice(w http.ResponseWriter, r *http.Request, notice, level string) {
	q := url.Values{}
	q.Set("notice", notice)
	q.Set("level", level)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
