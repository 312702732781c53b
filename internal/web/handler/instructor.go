package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/access"
	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/api/request"
	"github.com/mcoot/fluency-harness/internal/api/response"
	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/services/auth"
	"github.com/mcoot/fluency-harness/internal/services/game"
	"github.com/mcoot/fluency-harness/internal/storage"
	"github.com/mcoot/fluency-harness/internal/web/templates"
)

// InstructorHandler handles the instructor page, reports and roster changes.
// Every route is gated on an instructor identity.
type InstructorHandler struct {
	authService    *auth.Service
	reports        storage.ReportStore
	gameController *game.Controller
	paths          Paths
	logger         *slog.Logger
}

// NewInstructorHandler creates a new InstructorHandler
func NewInstructorHandler(
	authService *auth.Service,
	reports storage.ReportStore,
	gameController *game.Controller,
	paths Paths,
	logger *slog.Logger,
) *InstructorHandler {
	return &InstructorHandler{
		authService:    authService,
		reports:        reports,
		gameController: gameController,
		paths:          paths,
		logger:         logger,
	}
}

// Page renders the instructor dashboard
func (h *InstructorHandler) Page(w http.ResponseWriter, r *http.Request) {
	id := identity.FromContext(r.Context())
	render(w, r, h.logger, templates.Instructor(templates.InstructorData{
		PageData:         h.paths.pageData(r, "Instructor"),
		IsAdmin:          id.IsAdmin(),
		Conditions:       h.gameController.ConditionNames(),
		StudentsURL:      h.paths.Path("/instructor/students"),
		ResultsURL:       h.paths.Path("/instructor/students/results"),
		CreateStudentURL: h.paths.Path("/instructor/student"),
	}))
}

// Students returns the student report, narrowed to the caller's roster
// unless they are an admin
func (h *InstructorHandler) Students(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.ListStudentSummaries(r.Context(), access.ReportScope(identity.FromContext(r.Context())))
	if err != nil {
		h.backendError(w, r, "student report", err)
		return
	}
	response.JSON(w, http.StatusOK, response.StudentsFromModel(rows))
}

// Results returns every recorded outcome in the caller's scope
func (h *InstructorHandler) Results(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.ListOutcomeResults(r.Context(), access.ReportScope(identity.FromContext(r.Context())))
	if err != nil {
		h.backendError(w, r, "results report", err)
		return
	}
	response.JSON(w, http.StatusOK, response.ResultsFromModel(rows))
}

// CreateStudent adds a student to the caller's roster
func (h *InstructorHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	instructor, ok := identity.FromContext(r.Context()).Instructor()
	if !ok {
		// unreachable behind the instructor gate
		http.Redirect(w, r, h.paths.Root(), http.StatusSeeOther)
		return
	}

	req, err := decodeCreateStudent(r)
	if err != nil {
		apierr.WriteError(w, apierr.NewValidationError("invalid request body"))
		return
	}

	summary, err := h.authService.CreateStudent(r.Context(), instructor, auth.NewStudent{
		LoginID:   req.LoginID,
		Password:  req.Password,
		RosterID:  req.RosterID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Condition: req.Condition,
	})
	if err != nil {
		if apierr.Status(err) == http.StatusInternalServerError {
			h.backendError(w, r, "create student", err)
			return
		}
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreateStudentResponse{Student: response.StudentFromModel(*summary)})
}

func decodeCreateStudent(r *http.Request) (request.CreateStudentRequest, error) {
	var req request.CreateStudentRequest
	if isJSON(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.LoginID = r.PostFormValue("loginID")
	req.Password = r.PostFormValue("password")
	req.RosterID = r.PostFormValue("rosterID")
	req.FirstName = r.PostFormValue("firstName")
	req.LastName = r.PostFormValue("lastName")
	req.Condition = r.PostFormValue("condition")
	return req, nil
}

// backendError logs the detail and sends only a generic message
func (h *InstructorHandler) backendError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	apierr.WriteError(w, apierr.NewInternalError())
}
