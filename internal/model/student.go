package model

import "time"

// StudentID uniquely identifies a student account
type StudentID int64

// Student is a game player belonging to exactly one instructor
type Student struct {
	ID           StudentID
	InstructorID InstructorID
	RosterID     string
	LoginID      string
	PasswordHash string // bcrypt hash
	FirstName    string
	LastName     string
	Condition    string // experimental condition the student is assigned to
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StudentSummary is a reporting row: a student joined with their instructor
// and the number of question sets they have played
type StudentSummary struct {
	StudentID         StudentID
	RosterID          string
	LoginID           string
	FirstName         string
	LastName          string
	Condition         string
	InstructorLoginID string
	GameCount         *int // nil when the student has never played
}
