package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/dependencies/random"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/session"
	"github.com/mcoot/fluency-harness/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownRole        = errors.New("unknown role")
	ErrEmptyLoginID       = errors.New("login ID cannot be empty")
	ErrUnknownCondition   = errors.New("unknown condition")
)

// Credentials is a login attempt
type Credentials struct {
	LoginID  string
	Password string
	Remember bool
	Role     model.Role
}

// NewStudent is an instructor's request to add a student to their roster
type NewStudent struct {
	LoginID   string
	Password  string
	RosterID  string
	FirstName string
	LastName  string
	Condition string
}

// Service handles authentication and session management
type Service struct {
	storage  storage.Storage
	sessions session.Store
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	longSessionLength time.Duration
	bcryptCost        int
	conditions        []string

	// dummyHash is compared against when a login ID is unknown, so both
	// failure paths cost one bcrypt comparison
	dummyHash string
	compare   func(hash, password string) bool
}

// Config holds configuration for the auth service
type Config struct {
	// LongSessionLength is how long a "remember me" session lasts
	LongSessionLength time.Duration
	BcryptCost        int
	// Conditions a new student may be assigned to. Empty allows any.
	Conditions []string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		LongSessionLength: 90 * 24 * time.Hour,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(
	storage storage.Storage,
	sessions session.Store,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.LongSessionLength == 0 {
		cfg.LongSessionLength = defaults.LongSessionLength
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	dummyHash, err := HashPassword("fluency-unknown-account", cfg.BcryptCost)
	if err != nil {
		// Only an out-of-range cost fails; comparisons against "" fail the same way
		logger.Error("failed to create dummy password hash", slog.String("error", err.Error()))
	}
	return &Service{
		storage:           storage,
		sessions:          sessions,
		clock:             clock,
		random:            random,
		logger:            logger,
		longSessionLength: cfg.LongSessionLength,
		bcryptCost:        cfg.BcryptCost,
		conditions:        slices.Clone(cfg.Conditions),
		dummyHash:         dummyHash,
		compare:           passwordMatches,
	}
}

// BcryptCost is the cost new password hashes are created with
func (s *Service) BcryptCost() int {
	return s.bcryptCost
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login authenticates creds and issues a new session bound to that account.
// Any current session is destroyed, so a login never inherits the state
// of the session it replaces.
func (s *Service) Login(ctx context.Context, current *session.Session, creds Credentials) (*session.Session, error) {
	principal, err := s.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	token, err := session.NewToken(s.random)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sess := &session.Session{
		Token:     token,
		Principal: principal,
		CreatedAt: now,
	}
	if creds.Remember {
		sess.ExpiresAt = now.Add(s.longSessionLength)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if current != nil && current.Token != "" {
		if err := s.sessions.Destroy(ctx, current.Token); err != nil {
			s.logger.Warn("failed to destroy replaced session",
				slog.String("principal", current.Principal.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("login succeeded",
		slog.String("principal", principal.String()),
		slog.Bool("remember", creds.Remember),
	)

	return sess, nil
}

func (s *Service) authenticate(ctx context.Context, creds Credentials) (session.Principal, error) {
	switch creds.Role {
	case model.RoleInstructor:
		instructor, err := s.storage.GetInstructorByLoginID(ctx, creds.LoginID)
		if err != nil {
			return session.Principal{}, s.lookupError(err, creds.Password)
		}
		if !s.compare(instructor.PasswordHash, creds.Password) {
			return session.Principal{}, ErrInvalidCredentials
		}
		return session.InstructorPrincipal(instructor.ID), nil

	case model.RoleStudent:
		student, err := s.storage.GetStudentByLoginID(ctx, creds.LoginID)
		if err != nil {
			return session.Principal{}, s.lookupError(err, creds.Password)
		}
		if !s.compare(student.PasswordHash, creds.Password) {
			return session.Principal{}, ErrInvalidCredentials
		}
		return session.StudentPrincipal(student.ID), nil

	default:
		return session.Principal{}, ErrUnknownRole
	}
}

// lookupError maps a failed account lookup. An unknown login ID still pays
// for a bcrypt comparison so its timing matches a wrong password.
func (s *Service) lookupError(err error, password string) error {
	if model.IsNotFound(err) {
		s.compare(s.dummyHash, password)
		return ErrInvalidCredentials
	}
	return fmt.Errorf("look up account: %w", err)
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Logout destroys the session. Logging out without a session is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// CreateStudent adds a student to the instructor's roster and returns it
// in reporting form
func (s *Service) CreateStudent(ctx context.Context, instructor *model.Instructor, input NewStudent) (*model.StudentSummary, error) {
	if strings.TrimSpace(input.LoginID) == "" {
		return nil, ErrEmptyLoginID
	}
	if input.Condition != "" && len(s.conditions) > 0 && !slices.Contains(s.conditions, input.Condition) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, input.Condition)
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	student := &model.Student{
		InstructorID: instructor.ID,
		RosterID:     input.RosterID,
		LoginID:      input.LoginID,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Condition:    input.Condition,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateStudent(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student created",
		slog.Int64("student_id", int64(student.ID)),
		slog.String("login_id", student.LoginID),
		slog.String("instructor", instructor.LoginID),
	)

	return &model.StudentSummary{
		StudentID:         student.ID,
		RosterID:          student.RosterID,
		LoginID:           student.LoginID,
		FirstName:         student.FirstName,
		LastName:          student.LastName,
		Condition:         student.Condition,
		InstructorLoginID: instructor.LoginID,
		GameCount:         nil,
	}, nil
}
