package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/services/game"
)

type contextKey string

const playerStateContextKey contextKey = "playerState"

// WithPlayerState attaches a student's player state for API handlers
func WithPlayerState(ctx context.Context, state *game.PlayerState) context.Context {
	return context.WithValue(ctx, playerStateContextKey, state)
}

// GetPlayerState returns the attached player state, or nil
func GetPlayerState(ctx context.Context) *game.PlayerState {
	state, _ := ctx.Value(playerStateContextKey).(*game.PlayerState)
	return state
}

// MustGetPlayerState returns the attached player state or panics
func MustGetPlayerState(ctx context.Context) *game.PlayerState {
	state := GetPlayerState(ctx)
	if state == nil {
		panic("no player state in context - RequirePlayer middleware not applied?")
	}
	return state
}

// RequirePlayer rejects API calls that have no student attached with 401
func RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPlayerState(r.Context()) == nil {
			apierr.WriteError(w, apierr.NewUnauthenticatedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}
