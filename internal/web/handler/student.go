package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/web/templates"
)

// StudentHandler renders the student page
type StudentHandler struct {
	paths  Paths
	logger *slog.Logger
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(paths Paths, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{paths: paths, logger: logger}
}

// Page lists the stages the student can play
func (h *StudentHandler) Page(w http.ResponseWriter, r *http.Request) {
	player, ok := identity.FromContext(r.Context()).Player()
	if !ok {
		http.Redirect(w, r, h.paths.Root(), http.StatusSeeOther)
		return
	}

	render(w, r, h.logger, templates.Student(templates.StudentData{
		PageData:        h.paths.pageData(r, "Student"),
		FirstName:       player.Student.FirstName,
		GamesPlayed:     player.GamesPlayed,
		AvailableStages: player.AvailableStages,
	}))
}
