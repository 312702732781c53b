package model

import "time"

// InstructorID uniquely identifies an instructor account
type InstructorID int64

// Instructor owns a roster of students. Admins can see every roster.
type Instructor struct {
	ID           InstructorID
	LoginID      string
	PasswordHash string // bcrypt hash
	FirstName    string
	LastName     string
	Email        string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
