package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/fluency-harness/internal/dependencies/random"
	"github.com/mcoot/fluency-harness/internal/model"
)

// Errors
var (
	ErrNotFound         = errors.New("session not found")
	ErrInvalidPrincipal = errors.New("invalid session principal")
)

const (
	// TokenPrefix marks opaque session tokens
	TokenPrefix = "sess_"
	tokenBytes  = 32
)

// Principal is the account a session is bound to. The zero value is the
// empty principal. A principal holds one role at most; there is no way to
// bind a session to both a student and an instructor.
type Principal struct {
	role model.Role
	id   int64
}

// InstructorPrincipal binds a session to an instructor account
func InstructorPrincipal(id model.InstructorID) Principal {
	return Principal{role: model.RoleInstructor, id: int64(id)}
}

// StudentPrincipal binds a session to a student account
func StudentPrincipal(id model.StudentID) Principal {
	return Principal{role: model.RoleStudent, id: int64(id)}
}

// RestorePrincipal rebuilds a principal from its stored form.
// An empty role yields the empty principal.
func RestorePrincipal(role model.Role, id int64) (Principal, error) {
	switch role {
	case "":
		return Principal{}, nil
	case model.RoleInstructor:
		return InstructorPrincipal(model.InstructorID(id)), nil
	case model.RoleStudent:
		return StudentPrincipal(model.StudentID(id)), nil
	default:
		return Principal{}, fmt.Errorf("%w: role %q", ErrInvalidPrincipal, role)
	}
}

// IsEmpty reports whether the principal is bound to no account
func (p Principal) IsEmpty() bool {
	return p.role == ""
}

// Role returns the bound role, or "" for the empty principal
func (p Principal) Role() model.Role {
	return p.role
}

// RawID returns the stored account ID regardless of role
func (p Principal) RawID() int64 {
	return p.id
}

func (p Principal) InstructorID() (model.InstructorID, bool) {
	if p.role != model.RoleInstructor {
		return 0, false
	}
	return model.InstructorID(p.id), true
}

func (p Principal) StudentID() (model.StudentID, bool) {
	if p.role != model.RoleStudent {
		return 0, false
	}
	return model.StudentID(p.id), true
}

func (p Principal) String() string {
	if p.IsEmpty() {
		return "anonymous"
	}
	return fmt.Sprintf("%s:%d", p.role, p.id)
}

// Session is the server-side state referenced by a session cookie
type Session struct {
	Token     string
	Principal Principal
	CreatedAt time.Time

	// ExpiresAt is zero for browser-session lifetime sessions, which
	// last until the cookie is dropped or the store's idle TTL passes
	ExpiresAt time.Time
}

// Persistent reports whether the session has an absolute expiry
func (s *Session) Persistent() bool {
	return !s.ExpiresAt.IsZero()
}

// Expired reports whether a persistent session has passed its expiry
func (s *Session) Expired(now time.Time) bool {
	return s.Persistent() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by token. Implementations are safe for
// concurrent use; concurrent saves to one token are last-write-wins.
type Store interface {
	// Load returns ErrNotFound when the token is unknown or expired
	Load(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	// Destroy removes the session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// NewToken generates a fresh opaque session token
func NewToken(r random.Random) (string, error) {
	b, err := r.Bytes(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
