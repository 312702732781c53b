package handler

import (
	"net/http"

	"github.com/mcoot/fluency-harness/internal/identity"
)

// HomeHandler sends the root URL to the page for the caller's role
type HomeHandler struct {
	paths Paths
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(paths Paths) *HomeHandler {
	return &HomeHandler{paths: paths}
}

// Root redirects students to their page, instructors to theirs, and
// everyone else to the login page
func (h *HomeHandler) Root(w http.ResponseWriter, r *http.Request) {
	var target string
	switch identity.FromContext(r.Context()).Kind() {
	case identity.KindStudent:
		target = h.paths.Path("/student")
	case identity.KindInstructor:
		target = h.paths.Path("/instructor")
	default:
		target = h.paths.Path("/login")
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
