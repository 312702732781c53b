package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/api"
	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/metrics"
	"github.com/mcoot/fluency-harness/internal/session"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
)

// GetSession returns the session loaded for this request, or nil
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// Resolver resolves a loaded session into an identity
type Resolver interface {
	Resolve(ctx context.Context, sess *session.Session) (identity.Identity, error)
}

// IdentityConfig holds the dependencies of the Identity middleware
type IdentityConfig struct {
	Resolver Resolver
	Sessions session.Store
	Cookies  session.CookieOptions
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Identity returns middleware that loads the request's session, resolves it
// and attaches the result before any gate or handler runs.
//
//   - no cookie, or a token the store doesn't know: Anonymous, and any
//     dead cookie is cleared
//   - a session naming a deleted account: the session is destroyed, the
//     cookie cleared, and the request continues as Anonymous
//   - a failed lookup: 503 with the error envelope
//   - a client that went away mid-lookup: nothing is written
//
// Students' player state is also attached for the REST API.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := loadSession(ctx, w, r, cfg)
			if err != nil {
				fail(w, r, cfg, err)
				return
			}

			id, err := cfg.Resolver.Resolve(ctx, sess)
			switch {
			case err == nil:
			case errors.Is(err, identity.ErrStaleSession):
				cfg.Logger.Warn("session refers to a missing account, ending it",
					slog.String("principal", sess.Principal.String()),
				)
				if err := cfg.Sessions.Destroy(ctx, sess.Token); err != nil {
					cfg.Logger.Error("failed to destroy stale session", slog.String("error", err.Error()))
				}
				session.ClearCookie(w, cfg.Cookies)
				cfg.Metrics.ObserveResolution("stale")
				sess = nil
				id = identity.Anonymous()
			default:
				fail(w, r, cfg, err)
				return
			}

			cfg.Metrics.ObserveResolution(id.Kind().String())

			ctx = identity.WithContext(ctx, id)
			ctx = context.WithValue(ctx, sessionContextKey, sess)
			if player, ok := id.Player(); ok {
				ctx = api.WithPlayerState(ctx, player)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loadSession(ctx context.Context, w http.ResponseWriter, r *http.Request, cfg IdentityConfig) (*session.Session, error) {
	token := session.TokenFromRequest(r)
	if token == "" {
		return nil, nil
	}

	sess, err := cfg.Sessions.Load(ctx, token)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, session.ErrNotFound):
		session.ClearCookie(w, cfg.Cookies)
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("%w: load session: %w", identity.ErrResolutionFailed, err)
	}
}

// fail ends a request whose identity could not be established
func fail(w http.ResponseWriter, r *http.Request, cfg IdentityConfig, err error) {
	if errors.Is(err, context.Canceled) {
		cfg.Logger.Info("client went away during identity resolution",
			slog.String("path", r.URL.Path),
		)
		cfg.Metrics.ObserveResolution("canceled")
		return
	}

	if !errors.Is(err, identity.ErrResolutionFailed) {
		err = fmt.Errorf("%w: %w", identity.ErrResolutionFailed, err)
	}
	cfg.Logger.Error("identity resolution failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	cfg.Metrics.ObserveResolution("failed")
	apierr.WriteError(w, err)
}
