package access

import (
	"net/http"

	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/storage"
)

// Requirement is what a route demands of the requesting identity
type Requirement int

const (
	// None admits everyone
	None Requirement = iota
	// AnonymousOnly admits only requests with no bound account
	AnonymousOnly
	// InstructorRequired admits any instructor
	InstructorRequired
	// StudentRequired admits any student
	StudentRequired
	// AdminOnly admits any instructor; non-admins get narrowed data
	// through ReportScope rather than a denial
	AdminOnly
)

func (r Requirement) String() string {
	switch r {
	case AnonymousOnly:
		return "anonymous_only"
	case InstructorRequired:
		return "instructor_required"
	case StudentRequired:
		return "student_required"
	case AdminOnly:
		return "admin_only"
	default:
		return "none"
	}
}

// Decision is the outcome of a gate check. Denials are redirects, never errors.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Check decides whether id may proceed past a route gated by req.
// Denied requests are sent to root.
func Check(id identity.Identity, req Requirement, root string) Decision {
	switch req {
	case AnonymousOnly:
		if !id.IsAnonymous() {
			return redirect(root)
		}
	case InstructorRequired, AdminOnly:
		if id.Kind() != identity.KindInstructor {
			return redirect(root)
		}
	case StudentRequired:
		if id.Kind() != identity.KindStudent {
			return redirect(root)
		}
	}
	return allow()
}

// ReportScope narrows reporting queries for id: admins see every roster,
// other instructors only their own, everyone else nothing.
func ReportScope(id identity.Identity) storage.Scope {
	instructor, ok := id.Instructor()
	if !ok {
		return storage.Scope{}
	}
	if instructor.IsAdmin {
		return storage.Unrestricted()
	}
	return storage.ForInstructor(instructor.ID)
}

// Require returns middleware that gates the wrapped handler on req, using
// the identity attached to the request context. Denied requests get a
// 303 See Other to root.
func Require(req Requirement, root string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Check(identity.FromContext(r.Context()), req, root)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
