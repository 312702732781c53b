package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fluency-harness/internal/api/handler"
	"github.com/mcoot/fluency-harness/internal/api/middleware"
	"github.com/mcoot/fluency-harness/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller

	// PathPrefix is the URL root the API is mounted under; routes live at PathPrefix + "/api"
	PathPrefix string
}

// PlayerState returns the student state the web layer attached to ctx, or nil
func PlayerState(ctx context.Context) *game.PlayerState {
	return middleware.GetPlayerState(ctx)
}

// WithPlayerState attaches a student's state for API handlers
func WithPlayerState(ctx context.Context, state *game.PlayerState) context.Context {
	return middleware.WithPlayerState(ctx, state)
}

// NewRouter creates a new API router with all routes configured.
// It expects the player state to already be attached to each request.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.GameController)

	// API subrouter with common middleware
	api := r.PathPrefix(cfg.PathPrefix + "/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.RequirePlayer)

	api.HandleFunc("/player", playerHandler.GetPlayer).Methods(http.MethodGet)
	api.HandleFunc("/outcomes", playerHandler.RecordOutcome).Methods(http.MethodPost)

	return r
}
