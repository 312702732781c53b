package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/fluency-harness/internal/web/templates"
)

const (
	flashCookieName = "fluency_flash"
	flashContextKey = contextKey("flash")
)

// GetFlash retrieves the flash message from the request context
// Returns nil if no flash message is set
func GetFlash(ctx context.Context) *templates.FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*templates.FlashMessage)
	return flash
}

// Flasher sets and consumes one-shot messages carried in a cookie scoped to
// the server's root path
type Flasher struct {
	path   string
	secure bool
}

// NewFlasher creates a Flasher for cookies under path
func NewFlasher(path string, secure bool) *Flasher {
	if path == "" {
		path = "/"
	}
	return &Flasher{path: path, secure: secure}
}

// Set sets a flash message to be displayed on the next rendered page
func (f *Flasher) Set(w http.ResponseWriter, flashType, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    flashType + ":" + message,
		Path:     f.path,
		MaxAge:   60,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware reads and clears the flash message. Apply it only to routes
// that render a page, or the message is consumed by a redirect.
func (f *Flasher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var flash *templates.FlashMessage

		cookie, err := r.Cookie(flashCookieName)
		if err == nil && cookie.Value != "" {
			flash = parseFlash(cookie.Value)

			http.SetCookie(w, &http.Cookie{
				Name:     flashCookieName,
				Value:    "",
				Path:     f.path,
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   f.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), flashContextKey, flash)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseFlash(value string) *templates.FlashMessage {
	kind, message, ok := strings.Cut(value, ":")
	if !ok {
		return &templates.FlashMessage{Type: "info", Message: value}
	}
	return &templates.FlashMessage{Type: kind, Message: message}
}
