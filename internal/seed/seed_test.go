package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/fluency-harness/internal/storage"
	"github.com/mcoot/fluency-harness/internal/storage/memory"
	"github.com/mcoot/fluency-harness/internal/testutil"
)

const seedYAML = `
instructors:
  - login_id: smith
    password: apple
    is_admin: true
    students:
      - login_id: alice
        password: alicepw
        roster_id: "01"
        condition: control
      - login_id: bob
        password: bobpw
  - login_id: jones
    password: pear
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)

	require.Len(t, f.Instructors, 2)
	assert.Equal(t, "smith", f.Instructors[0].LoginID)
	assert.True(t, f.Instructors[0].IsAdmin)
	require.Len(t, f.Instructors[0].Students, 2)
	assert.Equal(t, "01", f.Instructors[0].Students[0].RosterID)
	assert.Equal(t, "control", f.Instructors[0].Students[0].Condition)
	assert.Empty(t, f.Instructors[1].Students)
}

func TestLoadRequiresLoginIDs(t *testing.T) {
	_, err := Load(writeSeed(t, "instructors:\n  - password: x\n"))
	assert.ErrorContains(t, err, "login_id is required")

	_, err = Load(writeSeed(t, "instructors:\n  - login_id: smith\n    students:\n      - password: x\n"))
	assert.ErrorContains(t, err, "login_id is required")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	f, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)

	res, err := Apply(ctx, store, f, bcrypt.MinCost, testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{Instructors: 2, Students: 2}, res)

	smith, err := store.GetInstructorByLoginID(ctx, "smith")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(smith.PasswordHash), []byte("apple")))

	alice, err := store.GetStudentByLoginID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, smith.ID, alice.InstructorID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(alice.PasswordHash), []byte("alicepw")))

	summaries, err := store.ListStudentSummaries(ctx, storage.ForInstructor(smith.ID))
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	f, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)

	_, err = Apply(ctx, store, f, bcrypt.MinCost, testutil.NopLogger())
	require.NoError(t, err)

	res, err := Apply(ctx, store, f, bcrypt.MinCost, testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	all, err := store.ListStudentSummaries(ctx, storage.Unrestricted())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
