package session

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie
const CookieName = "fluency_session"

// CookieOptions defines how session cookies are issued
type CookieOptions struct {
	Path   string
	Secure bool
}

func (o CookieOptions) path() string {
	if o.Path == "" {
		return "/"
	}
	return o.Path
}

// SetCookie issues the session cookie. Persistent sessions get a Max-Age
// matching their expiry; others become browser-session cookies.
func SetCookie(w http.ResponseWriter, sess *Session, now time.Time, opts CookieOptions) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     opts.path(),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if sess.Persistent() {
		maxAge := int(sess.ExpiresAt.Sub(now).Seconds())
		if maxAge < 1 {
			maxAge = 1
		}
		cookie.MaxAge = maxAge
		cookie.Expires = sess.ExpiresAt.UTC()
	}
	http.SetCookie(w, cookie)
}

// ClearCookie removes the session cookie from the client
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.path(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the session token carried by r, or ""
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
