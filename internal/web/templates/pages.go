package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// LoginData is the data for the login page
type LoginData struct {
	PageData
	StudentAction    string
	InstructorAction string
}

// Login renders one form per role. Both post loginID, password and remember.
func Login(data LoginData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Log in</h1>`)
		loginForm(h, "student-login", "Students", data.StudentAction)
		loginForm(h, "instructor-login", "Instructors", data.InstructorAction)
		return h.err
	}))
}

func loginForm(h *htmlWriter, id, heading, action string) {
	h.raw(`<section><h2>`)
	h.text(heading)
	h.raw(`</h2><form method="post"`)
	h.attr("id", id)
	h.attr("action", action)
	h.raw(`><label>Login ID <input type="text" name="loginID" required></label>`)
	h.raw(`<label>Password <input type="password" name="password"></label>`)
	h.raw(`<label><input type="checkbox" name="remember" value="true"> Remember me</label>`)
	h.raw(`<button type="submit">Log in</button></form></section>`)
}

// InstructorData is the data for the instructor page
type InstructorData struct {
	PageData
	IsAdmin          bool
	Conditions       []string
	StudentsURL      string
	ResultsURL       string
	CreateStudentURL string
}

// Instructor renders the instructor dashboard: report links, the experimental
// conditions and the add-student form
func Instructor(data InstructorData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Instructor</h1>`)
		if data.IsAdmin {
			h.raw(`<p class="admin">Administrator: reports include every roster.</p>`)
		}
		h.raw(`<ul class="reports"><li><a class="students-report"`)
		h.attr("href", data.StudentsURL)
		h.raw(`>Students</a></li><li><a class="results-report"`)
		h.attr("href", data.ResultsURL)
		h.raw(`>Results</a></li></ul>`)

		h.raw(`<h2>Conditions</h2><ul class="conditions">`)
		for _, c := range data.Conditions {
			h.raw(`<li>`)
			h.text(c)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)

		h.raw(`<h2>Add a student</h2><form id="create-student" method="post"`)
		h.attr("action", data.CreateStudentURL)
		h.raw(`><label>Login ID <input type="text" name="loginID" required></label>`)
		h.raw(`<label>Password <input type="password" name="password"></label>`)
		h.raw(`<label>Roster ID <input type="text" name="rosterID"></label>`)
		h.raw(`<label>First name <input type="text" name="firstName"></label>`)
		h.raw(`<label>Last name <input type="text" name="lastName"></label>`)
		h.raw(`<label>Condition <select name="condition">`)
		for _, c := range data.Conditions {
			h.raw(`<option`)
			h.attr("value", c)
			h.raw(`>`)
			h.text(c)
			h.raw(`</option>`)
		}
		h.raw(`</select></label><button type="submit">Add</button></form>`)
		return h.err
	}))
}

// StudentData is the data for the student page
type StudentData struct {
	PageData
	FirstName       string
	GamesPlayed     int
	AvailableStages []string
}

// Student renders the student's stage list
func Student(data StudentData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Welcome`)
		if data.FirstName != "" {
			h.raw(`, `)
			h.text(data.FirstName)
		}
		h.raw(`</h1><p class="games-played">Question sets played: `)
		h.text(strconv.Itoa(data.GamesPlayed))
		h.raw(`</p><h2>Stages</h2><ul class="stages">`)
		for _, stage := range data.AvailableStages {
			h.raw(`<li class="stage"`)
			h.attr("data-stage", stage)
			h.raw(`>`)
			h.text(stage)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	}))
}
