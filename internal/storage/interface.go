package storage

import (
	"context"

	"github.com/mcoot/fluency-harness/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	InstructorStore
	StudentStore
	OutcomeStore
	ReportStore
}

// InstructorStore holds instructor accounts
type InstructorStore interface {
	// SaveInstructor inserts the instructor, assigning an ID if it has none
	SaveInstructor(ctx context.Context, instructor *model.Instructor) error
	GetInstructor(ctx context.Context, id model.InstructorID) (*model.Instructor, error)
	GetInstructorByLoginID(ctx context.Context, loginID string) (*model.Instructor, error)
}

// StudentStore holds student accounts
type StudentStore interface {
	// CreateStudent inserts a new student, assigning its ID.
	// Returns model.ErrLoginIDTaken if the login ID is in use.
	CreateStudent(ctx context.Context, student *model.Student) error
	GetStudent(ctx context.Context, id model.StudentID) (*model.Student, error)
	GetStudentByLoginID(ctx context.Context, loginID string) (*model.Student, error)
}

// OutcomeStore holds question set outcomes
type OutcomeStore interface {
	SaveOutcome(ctx context.Context, outcome *model.QuestionSetOutcome) error
	GetOutcomesForStudent(ctx context.Context, studentID model.StudentID) ([]*model.QuestionSetOutcome, error)
}

// ReportStore runs the instructor reporting queries
type ReportStore interface {
	ListStudentSummaries(ctx context.Context, scope Scope) ([]model.StudentSummary, error)
	ListOutcomeResults(ctx context.Context, scope Scope) ([]model.OutcomeResult, error)
}
