package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/session"
)

// record is the JSON form of a session stored under its key
type record struct {
	Token     string     `json:"token"`
	Role      model.Role `json:"role,omitempty"`
	AccountID int64      `json:"accountId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func toRecord(sess *session.Session) record {
	rec := record{
		Token:     sess.Token,
		Role:      sess.Principal.Role(),
		AccountID: sess.Principal.RawID(),
		CreatedAt: sess.CreatedAt,
	}
	if sess.Persistent() {
		expires := sess.ExpiresAt
		rec.ExpiresAt = &expires
	}
	return rec
}

func (rec record) toSession() (*session.Session, error) {
	principal, err := session.RestorePrincipal(rec.Role, rec.AccountID)
	if err != nil {
		return nil, err
	}
	sess := &session.Session{
		Token:     rec.Token,
		Principal: principal,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ExpiresAt != nil {
		sess.ExpiresAt = *rec.ExpiresAt
	}
	return sess, nil
}

// Store is a Redis-backed session store
type Store struct {
	client *redis.Client
	clock  clock.Clock
	cfg    Config
}

// New creates a new Redis session store and verifies the connection
func New(cfg Config, clk clock.Clock) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg, clk), nil
}

// NewWithClient creates a Redis session store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Store {
	return &Store{
		client: client,
		clock:  clk,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Store implements the interface
var _ session.Store = (*Store)(nil)

func (s *Store) Load(ctx context.Context, token string) (*session.Session, error) {
	key := sessionKey(token)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess, err := rec.toSession()
	if err != nil {
		return nil, err
	}

	if sess.Expired(s.clock.Now()) {
		_ = s.client.Del(ctx, key).Err()
		return nil, session.ErrNotFound
	}

	// Sliding expiry for browser-session lifetime sessions
	if !sess.Persistent() && s.cfg.IdleTTL > 0 {
		if err := s.client.Expire(ctx, key, s.cfg.IdleTTL).Err(); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	key := sessionKey(sess.Token)

	var ttl time.Duration
	if sess.Persistent() {
		ttl = sess.ExpiresAt.Sub(s.clock.Now())
		if ttl <= 0 {
			// Already expired; saving it would only resurrect it
			return s.client.Del(ctx, key).Err()
		}
	} else {
		ttl = s.cfg.IdleTTL
	}

	data, err := json.Marshal(toRecord(sess))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
