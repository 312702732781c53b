package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrLoginIDTaken       = errors.New("login ID already exists")

	// Outcome errors
	ErrInvalidOutcome = errors.New("invalid question set outcome")
)

// IsNotFound reports whether err is one of the record-not-found errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInstructorNotFound) || errors.Is(err, ErrStudentNotFound)
}
