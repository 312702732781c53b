package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/middleware"
	"github.com/mcoot/fluency-harness/internal/web/templates"
)

// Recovery creates panic recovery middleware for the web interface.
// It renders the HTML error page with a link back to home.
func Recovery(logger *slog.Logger, homeURL string) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		page := templates.ErrorPage(templates.PageData{Title: "Error", HomeURL: homeURL},
			"Please try again later.")
		if err := page.Render(r.Context(), w); err != nil {
			logger.Error("failed to render error page", slog.String("error", err.Error()))
		}
	})
}
