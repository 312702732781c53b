package identity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/game"
	"github.com/mcoot/fluency-harness/internal/session"
)

type stubInstructors struct {
	records map[model.InstructorID]*model.Instructor
	err     error
	block   chan struct{}
	calls   atomic.Int32
}

func (s *stubInstructors) GetInstructor(ctx context.Context, id model.InstructorID) (*model.Instructor, error) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	instructor, ok := s.records[id]
	if !ok {
		return nil, model.ErrInstructorNotFound
	}
	return instructor, nil
}

type stubPlayers struct {
	states map[model.StudentID]*game.PlayerState
	err    error
	calls  atomic.Int32
}

func (s *stubPlayers) GetPlayerState(ctx context.Context, id model.StudentID) (*game.PlayerState, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	state, ok := s.states[id]
	if !ok {
		return nil, model.ErrStudentNotFound
	}
	return state, nil
}

type ResolverSuite struct {
	suite.Suite
	instructors *stubInstructors
	players     *stubPlayers
	resolver    *Resolver
	ctx         context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.instructors = &stubInstructors{records: map[model.InstructorID]*model.Instructor{
		1: {ID: 1, LoginID: "mrs-smith"},
	}}
	s.players = &stubPlayers{states: map[model.StudentID]*game.PlayerState{
		2: {Student: model.Student{ID: 2, LoginID: "alice"}, AvailableStages: []string{"stage-1"}},
	}}
	s.resolver = NewResolver(s.instructors, s.players)
	s.ctx = context.Background()
}

func (s *ResolverSuite) TestNilSessionIsAnonymous() {
	id, err := s.resolver.Resolve(s.ctx, nil)
	s.Require().NoError(err)
	s.True(id.IsAnonymous())
}

func (s *ResolverSuite) TestEmptyPrincipalIsAnonymousWithoutLookup() {
	id, err := s.resolver.Resolve(s.ctx, &session.Session{Token: "sess_1"})
	s.Require().NoError(err)
	s.True(id.IsAnonymous())
	s.Zero(s.instructors.calls.Load())
	s.Zero(s.players.calls.Load())
}

func (s *ResolverSuite) TestInstructorPrincipal() {
	sess := &session.Session{Token: "sess_1", Principal: session.InstructorPrincipal(1)}

	id, err := s.resolver.Resolve(s.ctx, sess)
	s.Require().NoError(err)
	s.Equal(KindInstructor, id.Kind())
	s.Equal("mrs-smith", id.LoginID())
	s.Zero(s.players.calls.Load())
}

func (s *ResolverSuite) TestStudentPrincipal() {
	sess := &session.Session{Token: "sess_1", Principal: session.StudentPrincipal(2)}

	id, err := s.resolver.Resolve(s.ctx, sess)
	s.Require().NoError(err)
	s.Equal(KindStudent, id.Kind())

	player, _ := id.Player()
	s.Equal([]string{"stage-1"}, player.AvailableStages)
	s.Zero(s.instructors.calls.Load())
}

func (s *ResolverSuite) TestResolveIsDeterministic() {
	sess := &session.Session{Token: "sess_1", Principal: session.StudentPrincipal(2)}

	first, err := s.resolver.Resolve(s.ctx, sess)
	s.Require().NoError(err)
	second, err := s.resolver.Resolve(s.ctx, sess)
	s.Require().NoError(err)

	s.Equal(first.Kind(), second.Kind())
	s.Equal(first.LoginID(), second.LoginID())
}

func (s *ResolverSuite) TestResolveDoesNotModifySession() {
	sess := &session.Session{Token: "sess_1", Principal: session.InstructorPrincipal(99)}
	before := *sess

	_, _ = s.resolver.Resolve(s.ctx, sess)
	s.Equal(before, *sess)
}

func (s *ResolverSuite) TestMissingInstructorIsStale() {
	sess := &session.Session{Token: "sess_1", Principal: session.InstructorPrincipal(99)}

	id, err := s.resolver.Resolve(s.ctx, sess)
	s.ErrorIs(err, ErrStaleSession)
	s.True(id.IsAnonymous())
}

func (s *ResolverSuite) TestMissingStudentIsStale() {
	sess := &session.Session{Token: "sess_1", Principal: session.StudentPrincipal(99)}

	_, err := s.resolver.Resolve(s.ctx, sess)
	s.ErrorIs(err, ErrStaleSession)
}

func (s *ResolverSuite) TestLookupFailureIsResolutionFailure() {
	backendErr := errors.New("connection refused")
	s.players.err = backendErr
	sess := &session.Session{Token: "sess_1", Principal: session.StudentPrincipal(2)}

	id, err := s.resolver.Resolve(s.ctx, sess)
	s.ErrorIs(err, ErrResolutionFailed)
	s.ErrorIs(err, backendErr)
	s.NotErrorIs(err, ErrStaleSession)
	s.True(id.IsAnonymous())
}

func (s *ResolverSuite) TestCancellationAbandonsLookup() {
	s.instructors.block = make(chan struct{})
	defer close(s.instructors.block)

	ctx, cancel := context.WithCancel(s.ctx)
	sess := &session.Session{Token: "sess_1", Principal: session.InstructorPrincipal(1)}

	type outcome struct {
		id  Identity
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		id, err := s.resolver.Resolve(ctx, sess)
		done <- outcome{id, err}
	}()

	s.Eventually(func() bool { return s.instructors.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case res := <-done:
		s.ErrorIs(res.err, context.Canceled)
		s.NotErrorIs(res.err, ErrResolutionFailed)
		s.True(res.id.IsAnonymous())
	case <-time.After(time.Second):
		s.Fail("Resolve did not return after cancellation")
	}
}

func (s *ResolverSuite) TestDeadlineExceeded() {
	s.instructors.block = make(chan struct{})
	defer close(s.instructors.block)

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()

	_, err := s.resolver.Resolve(ctx, &session.Session{Token: "sess_1", Principal: session.InstructorPrincipal(1)})
	s.ErrorIs(err, context.DeadlineExceeded)
}
