package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
)

// limiterIdle is how long a client's limiter is kept after its last attempt
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client address.
// A nil *LoginLimiter allows everything.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	clock    clock.Clock
}

// NewLoginLimiter allows perSecond attempts per address with the given
// burst. It returns nil when perSecond is zero.
func NewLoginLimiter(perSecond float64, burst int, clk clock.Clock) *LoginLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &LoginLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		clock:    clk,
	}
}

// Allow reports whether key may make another attempt now
func (l *LoginLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.limiters[key]
	if !ok {
		l.evictIdle(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters for clients that have gone quiet. Caller holds mu.
func (l *LoginLimiter) evictIdle(now time.Time) {
	for key, cl := range l.limiters {
		if now.Sub(cl.lastSeen) > limiterIdle {
			delete(l.limiters, key)
		}
	}
}

// Middleware rejects throttled requests with 429. onThrottle, if set, is
// called for each rejection.
func (l *LoginLimiter) Middleware(onThrottle func(r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientAddr(r)) {
				if onThrottle != nil {
					onThrottle(r)
				}
				apierr.WriteError(w, apierr.NewRateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
