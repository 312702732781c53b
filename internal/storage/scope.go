package storage

import "github.com/mcoot/fluency-harness/internal/model"

// Scope restricts reporting queries to a subset of instructors' rosters.
// The zero value matches nothing; use Unrestricted or ForInstructor.
type Scope struct {
	unrestricted bool
	instructorID model.InstructorID
}

// Unrestricted returns a scope that matches every roster
func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

// ForInstructor returns a scope limited to one instructor's roster
func ForInstructor(id model.InstructorID) Scope {
	return Scope{instructorID: id}
}

// IsUnrestricted reports whether the scope matches every roster
func (s Scope) IsUnrestricted() bool {
	return s.unrestricted
}

// InstructorID returns the instructor the scope is limited to.
// The second result is false for unrestricted or zero scopes.
func (s Scope) InstructorID() (model.InstructorID, bool) {
	if s.unrestricted || s.instructorID == 0 {
		return 0, false
	}
	return s.instructorID, true
}

// Matches reports whether a row owned by the given instructor is in scope
func (s Scope) Matches(owner model.InstructorID) bool {
	if s.unrestricted {
		return true
	}
	return s.instructorID != 0 && s.instructorID == owner
}
