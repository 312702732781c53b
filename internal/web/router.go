package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fluency-harness/internal/access"
	"github.com/mcoot/fluency-harness/internal/api"
	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/metrics"
	sharedmiddleware "github.com/mcoot/fluency-harness/internal/middleware"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/auth"
	"github.com/mcoot/fluency-harness/internal/services/game"
	"github.com/mcoot/fluency-harness/internal/session"
	"github.com/mcoot/fluency-harness/internal/storage"
	"github.com/mcoot/fluency-harness/internal/web/handler"
	"github.com/mcoot/fluency-harness/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
	Reports        storage.ReportStore
	Sessions       session.Store
	Resolver       middleware.Resolver
	Clock          clock.Clock

	// Metrics, LoginLimiter and HealthChecks are optional
	Metrics      *metrics.Metrics
	LoginLimiter *middleware.LoginLimiter
	HealthChecks map[string]handler.Pinger

	// RootPath is the normalized prefix every route lives under ("" or "/prefix")
	RootPath     string
	CookieSecure bool
	StaticDir    string // Path to static files directory
	OutputPath   string // Game data files, served read-only
}

// NewRouter creates a new web router with all routes configured.
//
// Every page, action and API route first passes through the identity
// middleware, then the route's access gate, then the handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	paths := handler.NewPaths(cfg.RootPath)
	cookies := session.CookieOptions{Path: cfg.RootPath, Secure: cfg.CookieSecure}
	flasher := middleware.NewFlasher(cfg.RootPath, cfg.CookieSecure)

	// Apply global middleware to all routes
	r.Use(middleware.Recovery(cfg.Logger, paths.Root()))
	r.Use(sharedmiddleware.Logging(cfg.Logger))
	r.Use(cfg.Metrics.Middleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler(paths)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Clock, cookies, flasher, cfg.Metrics, paths, cfg.Logger)
	instructorHandler := handler.NewInstructorHandler(cfg.AuthService, cfg.Reports, cfg.GameController, paths, cfg.Logger)
	studentHandler := handler.NewStudentHandler(paths, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.HealthChecks, cfg.Logger)

	// Unauthenticated infrastructure routes
	r.HandleFunc(paths.Path("/healthz"), healthHandler.Healthz).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		r.Handle(paths.Path("/metrics"), cfg.Metrics.Handler()).Methods(http.MethodGet)
	}
	if cfg.StaticDir != "" {
		prefix := paths.Path("/static/")
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.StaticDir))))
	}
	if cfg.OutputPath != "" {
		prefix := paths.Path("/output/")
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.OutputPath))))
	}

	// Everything else resolves the caller's identity first
	site := r.NewRoute().Subrouter()
	site.Use(middleware.Identity(middleware.IdentityConfig{
		Resolver: cfg.Resolver,
		Sessions: cfg.Sessions,
		Cookies:  cookies,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
	}))

	gate := func(req access.Requirement, h http.HandlerFunc) http.Handler {
		return access.Require(req, paths.Root())(h)
	}
	// pages also consume any pending flash message
	page := func(req access.Requirement, h http.HandlerFunc) http.Handler {
		return access.Require(req, paths.Root())(flasher.Middleware(h))
	}

	site.Handle(paths.Root(), gate(access.None, homeHandler.Root)).Methods(http.MethodGet)
	if cfg.RootPath != "" {
		site.Handle(cfg.RootPath, gate(access.None, homeHandler.Root)).Methods(http.MethodGet)
	}

	// Auth routes
	throttle := cfg.LoginLimiter.Middleware(func(req *http.Request) {
		role, ok := model.ParseRole(mux.Vars(req)["role"])
		if !ok {
			role = "unknown"
		}
		cfg.Metrics.ObserveLogin(string(role), metrics.LoginThrottled)
	})
	site.Handle(paths.Path("/login"), page(access.AnonymousOnly, authHandler.LoginPage)).Methods(http.MethodGet)
	site.Handle(paths.Path("/login/{role}"), throttle(gate(access.None, authHandler.Login))).Methods(http.MethodPost)
	site.Handle(paths.Path("/logout"), gate(access.None, authHandler.Logout)).Methods(http.MethodGet)

	// Instructor routes
	site.Handle(paths.Path("/instructor"), page(access.InstructorRequired, instructorHandler.Page)).Methods(http.MethodGet)
	site.Handle(paths.Path("/instructor/students"), gate(access.AdminOnly, instructorHandler.Students)).Methods(http.MethodGet)
	site.Handle(paths.Path("/instructor/students/results"), gate(access.AdminOnly, instructorHandler.Results)).Methods(http.MethodGet)
	site.Handle(paths.Path("/instructor/student"), gate(access.InstructorRequired, instructorHandler.CreateStudent)).Methods(http.MethodPost)

	// Student routes
	site.Handle(paths.Path("/student"), page(access.StudentRequired, studentHandler.Page)).Methods(http.MethodGet)

	// REST API; it answers 401 itself when no student is attached
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         cfg.Logger,
		GameController: cfg.GameController,
		PathPrefix:     cfg.RootPath,
	})
	site.PathPrefix(paths.Path("/api/")).Handler(apiRouter)

	return r
}
