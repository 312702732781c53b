package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/fluency-harness/internal/config"
	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/dependencies/random"
	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/metrics"
	"github.com/mcoot/fluency-harness/internal/seed"
	"github.com/mcoot/fluency-harness/internal/services/auth"
	"github.com/mcoot/fluency-harness/internal/services/game"
	"github.com/mcoot/fluency-harness/internal/session"
	sessionmemory "github.com/mcoot/fluency-harness/internal/session/memory"
	sessionredis "github.com/mcoot/fluency-harness/internal/session/redis"
	"github.com/mcoot/fluency-harness/internal/storage"
	"github.com/mcoot/fluency-harness/internal/storage/memory"
	"github.com/mcoot/fluency-harness/internal/storage/postgres"
	"github.com/mcoot/fluency-harness/internal/web"
	"github.com/mcoot/fluency-harness/internal/web/handler"
	webmiddleware "github.com/mcoot/fluency-harness/internal/web/middleware"
)

// App contains all wired application components
type App struct {
	Config config.Config
	Logger *slog.Logger

	// Storage
	Storage  storage.Storage
	Sessions session.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	GameController *game.Controller
	AuthService    *auth.Service
	Resolver       *identity.Resolver
	Metrics        *metrics.Metrics
	LoginLimiter   *webmiddleware.LoginLimiter

	healthChecks map[string]handler.Pinger
	closers      []func()
}

// Config holds configuration for the application factory
type Config struct {
	// Server is the loaded server configuration (optional)
	// If nil, config.Default() is used
	Server *config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired. Postgres
// storage is migrated and the seed file, if any, is applied.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	server := config.Default()
	if cfg.Server != nil {
		server = *cfg.Server
	}
	if err := server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	checks := make(map[string]handler.Pinger)

	// Create storage based on type
	var store storage.Storage
	switch server.Storage.Type {
	case config.StoragePostgres:
		pg, err := postgres.New(ctx, postgres.Config{
			URL:      server.Storage.DatabaseURL,
			MaxConns: server.Storage.MaxConns,
			Debug:    server.Debug,
		}, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, pg.Close)
		if err := pg.Migrate(ctx); err != nil {
			closeAll()
			return nil, err
		}
		store = pg
		checks["postgres"] = pg
	default:
		store = memory.New()
	}

	// Create session store based on type
	var sessions session.Store
	switch server.Sessions.Type {
	case config.SessionsRedis:
		redisCfg := sessionredis.DefaultConfig()
		redisCfg.URL = server.Sessions.RedisURL
		redisCfg.IdleTTL = server.SessionIdleTTL
		redisStore, err := sessionredis.New(redisCfg, clk)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		closers = append(closers, func() { _ = redisStore.Close() })
		sessions = redisStore
		checks["redis"] = redisStore
	default:
		sessions = sessionmemory.New(clk, server.SessionIdleTTL)
	}

	app := newWithDependencies(server, store, sessions, clk, rnd, bcrypt.DefaultCost, logger)
	app.healthChecks = checks
	app.closers = closers

	if server.Storage.SeedFile != "" {
		if err := app.Seed(ctx, server.Storage.SeedFile); err != nil {
			closeAll()
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	server config.Config,
	store storage.Storage,
	sessions session.Store,
	clk clock.Clock,
	rnd random.Random,
	bcryptCost int,
	logger *slog.Logger,
) *App {
	// Create services
	gameController := game.NewController(store, clk, game.Config{
		Conditions: server.Conditions,
		Stages:     server.Stages,
		OutputPath: server.OutputPath,
	}, logger)
	authService := auth.New(store, sessions, clk, rnd, auth.Config{
		LongSessionLength: server.LongSessionLength,
		BcryptCost:        bcryptCost,
		Conditions:        server.Conditions,
	}, logger)

	return &App{
		Config:         server,
		Logger:         logger,
		Storage:        store,
		Sessions:       sessions,
		Clock:          clk,
		Random:         rnd,
		GameController: gameController,
		AuthService:    authService,
		Resolver:       identity.NewResolver(store, gameController),
		Metrics:        metrics.New(),
		LoginLimiter:   webmiddleware.NewLoginLimiter(server.LoginRateLimit, server.LoginBurst, clk),
		healthChecks:   map[string]handler.Pinger{},
	}
}

// Seed applies a seed file to the app's storage
func (a *App) Seed(ctx context.Context, path string) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, a.Storage, f, a.AuthService.BcryptCost(), a.Logger)
	return err
}

// Router builds the HTTP handler serving every route
func (a *App) Router() http.Handler {
	return web.NewRouter(web.RouterConfig{
		Logger:         a.Logger,
		AuthService:    a.AuthService,
		GameController: a.GameController,
		Reports:        a.Storage,
		Sessions:       a.Sessions,
		Resolver:       a.Resolver,
		Clock:          a.Clock,
		Metrics:        a.Metrics,
		LoginLimiter:   a.LoginLimiter,
		HealthChecks:   a.healthChecks,
		RootPath:       a.Config.RootPath,
		CookieSecure:   a.Config.CookieSecure,
		StaticDir:      a.Config.StaticDir,
		OutputPath:     a.Config.OutputPath,
	})
}

// RunSessionJanitor purges expired sessions from an in-memory session store
// every interval until ctx ends. Other stores expire sessions themselves, so
// it returns immediately for them.
func (a *App) RunSessionJanitor(ctx context.Context, interval time.Duration) {
	store, ok := a.Sessions.(*sessionmemory.Store)
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.PurgeExpired(); n > 0 {
				a.Logger.Debug("purged expired sessions", slog.Int("count", n))
			}
		}
	}
}

// Close releases backend connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
