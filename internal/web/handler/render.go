package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/web/middleware"
	"github.com/mcoot/fluency-harness/internal/web/templates"
)

// Paths builds URLs under the server's root path
type Paths struct {
	root string
}

// NewPaths creates Paths for a normalized root ("" or "/prefix")
func NewPaths(root string) Paths {
	return Paths{root: root}
}

// Root is where denied requests and logouts are sent
func (p Paths) Root() string {
	if p.root == "" {
		return "/"
	}
	return p.root + "/"
}

// Path returns path under the root
func (p Paths) Path(path string) string {
	return p.root + path
}

func (p Paths) pageData(r *http.Request, title string) templates.PageData {
	return templates.PageData{
		Title:     title,
		LoginID:   identity.FromContext(r.Context()).LoginID(),
		HomeURL:   p.Root(),
		LogoutURL: p.Path("/logout"),
		StaticURL: p.Path("/static"),
		Flash:     middleware.GetFlash(r.Context()),
	}
}

func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
