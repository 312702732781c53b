package handler

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/api/request"
	"github.com/mcoot/fluency-harness/internal/api/response"
	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/metrics"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/auth"
	"github.com/mcoot/fluency-harness/internal/session"
	"github.com/mcoot/fluency-harness/internal/web/middleware"
	"github.com/mcoot/fluency-harness/internal/web/templates"
)

// LoggedIn is the body of a successful login
const LoggedIn = "logged in"

// AuthHandler handles the login page and login/logout actions
type AuthHandler struct {
	authService *auth.Service
	clock       clock.Clock
	cookies     session.CookieOptions
	flash       *middleware.Flasher
	metrics     *metrics.Metrics
	paths       Paths
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	authService *auth.Service,
	clk clock.Clock,
	cookies session.CookieOptions,
	flash *middleware.Flasher,
	m *metrics.Metrics,
	paths Paths,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		clock:       clk,
		cookies:     cookies,
		flash:       flash,
		metrics:     m,
		paths:       paths,
		logger:      logger,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, templates.Login(templates.LoginData{
		PageData:         h.paths.pageData(r, "Log in"),
		StudentAction:    h.paths.Path("/login/student"),
		InstructorAction: h.paths.Path("/login/instructor"),
	}))
}

// Login handles POST {root}/login/{role}. The body is a form or JSON with
// loginID, password and remember.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	role, ok := model.ParseRole(mux.Vars(r)["role"])
	roleLabel := string(role)
	if !ok {
		roleLabel = "unknown"
	}

	req, err := decodeLogin(r)
	if err != nil {
		apierr.WriteError(w, apierr.NewValidationError("invalid login request"))
		return
	}

	sess, err := h.authService.Login(r.Context(), middleware.GetSession(r.Context()), auth.Credentials{
		LoginID:  req.LoginID,
		Password: req.Password,
		Remember: req.Remember,
		Role:     role,
	})
	if err != nil {
		switch apierr.Status(err) {
		case http.StatusInternalServerError:
			h.metrics.ObserveLogin(roleLabel, metrics.LoginFailed)
			h.logger.Error("login failed", slog.String("role", roleLabel), slog.String("error", err.Error()))
		default:
			h.metrics.ObserveLogin(roleLabel, metrics.LoginRejected)
		}
		apierr.WriteError(w, err)
		return
	}

	h.metrics.ObserveLogin(roleLabel, metrics.LoginSucceeded)
	session.SetCookie(w, sess, h.clock.Now(), h.cookies)
	response.Text(w, http.StatusOK, LoggedIn)
}

func decodeLogin(r *http.Request) (request.LoginRequest, error) {
	var req request.LoginRequest
	if isJSON(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.LoginID = r.PostFormValue("loginID")
	req.Password = r.PostFormValue("password")
	req.Remember = formBool(r.PostFormValue("remember"))
	return req, nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// formBool accepts checkbox "on" as well as the strconv spellings
func formBool(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// Logout destroys the current session and sends the client back to root
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		if err := h.authService.Logout(r.Context(), sess.Token); err != nil {
			h.logger.Error("failed to destroy session on logout", slog.String("error", err.Error()))
		}
		h.flash.Set(w, "info", "You have been logged out.")
	}
	session.ClearCookie(w, h.cookies)
	http.Redirect(w, r, h.paths.Root(), http.StatusSeeOther)
}
