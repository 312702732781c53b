package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/game"
	"github.com/mcoot/fluency-harness/internal/session"
)

// Errors
var (
	// ErrStaleSession means the session names an account that no longer exists
	ErrStaleSession = errors.New("session refers to a missing account")
	// ErrResolutionFailed means the account lookup itself failed
	ErrResolutionFailed = errors.New("identity resolution failed")
)

// InstructorLookup loads instructor records
type InstructorLookup interface {
	GetInstructor(ctx context.Context, id model.InstructorID) (*model.Instructor, error)
}

// PlayerLookup loads student player state
type PlayerLookup interface {
	GetPlayerState(ctx context.Context, id model.StudentID) (*game.PlayerState, error)
}

// Resolver turns sessions into identities
type Resolver struct {
	instructors InstructorLookup
	players     PlayerLookup
}

// NewResolver creates a Resolver
func NewResolver(instructors InstructorLookup, players PlayerLookup) *Resolver {
	return &Resolver{
		instructors: instructors,
		players:     players,
	}
}

// Resolve looks up the account bound to sess. A nil session or one with
// an empty principal resolves to Anonymous without any lookup. Resolve
// never modifies sess.
//
// Errors: ctx.Err() if ctx ends first, ErrStaleSession if the account is
// gone, ErrResolutionFailed wrapping anything else.
func (r *Resolver) Resolve(ctx context.Context, sess *session.Session) (Identity, error) {
	if sess == nil || sess.Principal.IsEmpty() {
		return Anonymous(), nil
	}

	if id, ok := sess.Principal.InstructorID(); ok {
		instructor, err := await(ctx, func(ctx context.Context) (*model.Instructor, error) {
			return r.instructors.GetInstructor(ctx, id)
		})
		if err != nil {
			return Anonymous(), classify(ctx, sess.Principal, err)
		}
		if instructor == nil {
			return Anonymous(), fmt.Errorf("%w: %s", ErrStaleSession, sess.Principal)
		}
		return ForInstructor(instructor), nil
	}

	if id, ok := sess.Principal.StudentID(); ok {
		player, err := await(ctx, func(ctx context.Context) (*game.PlayerState, error) {
			return r.players.GetPlayerState(ctx, id)
		})
		if err != nil {
			return Anonymous(), classify(ctx, sess.Principal, err)
		}
		if player == nil {
			return Anonymous(), fmt.Errorf("%w: %s", ErrStaleSession, sess.Principal)
		}
		return ForStudent(player), nil
	}

	return Anonymous(), fmt.Errorf("%w: unsupported principal %s", ErrResolutionFailed, sess.Principal)
}

func classify(ctx context.Context, principal session.Principal, err error) error {
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	case model.IsNotFound(err):
		return fmt.Errorf("%w: %s", ErrStaleSession, principal)
	default:
		return fmt.Errorf("%w: %s: %w", ErrResolutionFailed, principal, err)
	}
}

// await runs fn and waits for its result or for ctx to end, whichever is
// first. A result arriving after ctx ends is dropped.
func await[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-done:
		return res.value, res.err
	}
}
