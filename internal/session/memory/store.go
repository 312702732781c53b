package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/session"
)

type entry struct {
	sess     session.Session
	lastSeen time.Time
}

// Store is an in-memory session store
type Store struct {
	clock   clock.Clock
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
}

// New creates an in-memory session store. Browser-session lifetime
// sessions are dropped once unused for idleTTL; zero disables that.
func New(clk clock.Clock, idleTTL time.Duration) *Store {
	return &Store{
		clock:    clk,
		idleTTL:  idleTTL,
		sessions: make(map[string]*entry),
	}
}

// Ensure Store implements the interface
var _ session.Store = (*Store)(nil)

func (s *Store) expired(e *entry, now time.Time) bool {
	if e.sess.Persistent() {
		return e.sess.Expired(now)
	}
	return s.idleTTL > 0 && now.Sub(e.lastSeen) >= s.idleTTL
}

func (s *Store) Load(ctx context.Context, token string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	now := s.clock.Now()
	if s.expired(e, now) {
		delete(s.sessions, token)
		return nil, session.ErrNotFound
	}
	e.lastSeen = now

	result := e.sess
	return &result, nil
}

func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = &entry{sess: *sess, lastSeen: s.clock.Now()}
	return nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// PurgeExpired removes expired sessions (call periodically)
func (s *Store) PurgeExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
