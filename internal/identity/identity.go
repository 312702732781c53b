package identity

import (
	"context"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/game"
)

// Kind says which variant an Identity is
type Kind int

const (
	KindAnonymous Kind = iota
	KindInstructor
	KindStudent
)

func (k Kind) String() string {
	switch k {
	case KindInstructor:
		return "instructor"
	case KindStudent:
		return "student"
	default:
		return "anonymous"
	}
}

// Identity is who a request is acting as. It is exactly one of anonymous,
// an instructor with their record, or a student with their player state,
// and is rebuilt from the session on every request.
type Identity struct {
	kind       Kind
	instructor *model.Instructor
	player     *game.PlayerState
}

// Anonymous returns the identity of a request with no bound account
func Anonymous() Identity {
	return Identity{kind: KindAnonymous}
}

// ForInstructor returns an instructor identity. A nil record yields Anonymous.
func ForInstructor(instructor *model.Instructor) Identity {
	if instructor == nil {
		return Anonymous()
	}
	return Identity{kind: KindInstructor, instructor: instructor}
}

// ForStudent returns a student identity. A nil state yields Anonymous.
func ForStudent(player *game.PlayerState) Identity {
	if player == nil {
		return Anonymous()
	}
	return Identity{kind: KindStudent, player: player}
}

func (id Identity) Kind() Kind {
	return id.kind
}

func (id Identity) IsAnonymous() bool {
	return id.kind == KindAnonymous
}

// Instructor returns the instructor record for instructor identities
func (id Identity) Instructor() (*model.Instructor, bool) {
	return id.instructor, id.kind == KindInstructor
}

// Player returns the player state for student identities
func (id Identity) Player() (*game.PlayerState, bool) {
	return id.player, id.kind == KindStudent
}

// IsAdmin reports whether the identity is an admin instructor
func (id Identity) IsAdmin() bool {
	return id.kind == KindInstructor && id.instructor.IsAdmin
}

// LoginID returns the login ID of the bound account, or "" when anonymous
func (id Identity) LoginID() string {
	switch id.kind {
	case KindInstructor:
		return id.instructor.LoginID
	case KindStudent:
		return id.player.Student.LoginID
	default:
		return ""
	}
}

type contextKey struct{}

// WithContext attaches id to ctx
func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity attached to ctx, or Anonymous if none is
func FromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok {
		return Anonymous()
	}
	return id
}
