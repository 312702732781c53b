package model

// Role is the kind of account a session can be bound to
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// ParseRole converts a path segment such as "student" into a Role
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, true
	case RoleInstructor:
		return RoleInstructor, true
	default:
		return "", false
	}
}
