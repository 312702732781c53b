package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/fluency-harness/internal/config"
	"github.com/mcoot/fluency-harness/internal/dependencies/mocks"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/auth"
	sessionmemory "github.com/mcoot/fluency-harness/internal/session/memory"
	"github.com/mcoot/fluency-harness/internal/storage/memory"
	"github.com/mcoot/fluency-harness/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestConfig returns the server configuration used by NewTestApp.
// Login throttling and data files are disabled.
func TestConfig() config.Config {
	cfg := config.Default()
	cfg.OutputPath = ""
	cfg.LoginRateLimit = 0
	return cfg
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(TestConfig())
}

// NewTestAppWithConfig creates a test App from cfg. Storage and sessions are
// always in memory regardless of cfg.
func NewTestAppWithConfig(cfg config.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		cfg,
		memory.New(),
		sessionmemory.New(mockClock, cfg.SessionIdleTTL),
		mockClock,
		mockRandom,
		bcrypt.MinCost,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// CreateInstructor stores an instructor with the given password
func (t *TestApp) CreateInstructor(ctx context.Context, loginID, password string, isAdmin bool) (*model.Instructor, error) {
	hash, err := auth.HashPassword(password, t.AuthService.BcryptCost())
	if err != nil {
		return nil, err
	}
	now := t.MockClock.Now()
	instructor := &model.Instructor{
		LoginID:      loginID,
		PasswordHash: hash,
		FirstName:    loginID,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.Storage.SaveInstructor(ctx, instructor); err != nil {
		return nil, err
	}
	return instructor, nil
}

// CreateStudent adds a student with the given password to instructor's roster
func (t *TestApp) CreateStudent(ctx context.Context, instructor *model.Instructor, loginID, password string) (*model.Student, error) {
	summary, err := t.AuthService.CreateStudent(ctx, instructor, auth.NewStudent{
		LoginID:   loginID,
		Password:  password,
		RosterID:  "r-" + loginID,
		FirstName: loginID,
		Condition: "control",
	})
	if err != nil {
		return nil, err
	}
	return t.Storage.GetStudent(ctx, summary.StudentID)
}
