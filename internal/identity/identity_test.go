package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/game"
)

func TestAnonymous(t *testing.T) {
	id := Anonymous()
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, KindAnonymous, id.Kind())
	assert.Empty(t, id.LoginID())
	assert.False(t, id.IsAdmin())

	_, ok := id.Instructor()
	assert.False(t, ok)
	_, ok = id.Player()
	assert.False(t, ok)
}

func TestForInstructor(t *testing.T) {
	id := ForInstructor(&model.Instructor{ID: 1, LoginID: "mrs-smith", IsAdmin: true})
	assert.Equal(t, KindInstructor, id.Kind())
	assert.Equal(t, "mrs-smith", id.LoginID())
	assert.True(t, id.IsAdmin())

	instructor, ok := id.Instructor()
	assert.True(t, ok)
	assert.Equal(t, model.InstructorID(1), instructor.ID)
	_, ok = id.Player()
	assert.False(t, ok)
}

func TestForStudent(t *testing.T) {
	id := ForStudent(&game.PlayerState{Student: model.Student{ID: 2, LoginID: "alice"}})
	assert.Equal(t, KindStudent, id.Kind())
	assert.Equal(t, "alice", id.LoginID())
	assert.False(t, id.IsAdmin())

	player, ok := id.Player()
	assert.True(t, ok)
	assert.Equal(t, model.StudentID(2), player.Student.ID)
	_, ok = id.Instructor()
	assert.False(t, ok)
}

func TestNilRecordsAreAnonymous(t *testing.T) {
	assert.True(t, ForInstructor(nil).IsAnonymous())
	assert.True(t, ForStudent(nil).IsAnonymous())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "anonymous", KindAnonymous.String())
	assert.Equal(t, "instructor", KindInstructor.String())
	assert.Equal(t, "student", KindStudent.String())
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.True(t, FromContext(ctx).IsAnonymous())

	id := ForInstructor(&model.Instructor{LoginID: "mrs-smith"})
	ctx = WithContext(ctx, id)
	assert.Equal(t, "mrs-smith", FromContext(ctx).LoginID())
}
