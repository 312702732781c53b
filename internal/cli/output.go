package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/fluency-harness/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// LoginResult describes a completed login
type LoginResult struct {
	Role     string `json:"role"`
	LoginID  string `json:"loginID"`
	Remember bool   `json:"remember"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case response.PlayerResponse:
		o.printPlayer(v.Player)
	case response.OutcomeResponse:
		o.printOutcome(v.Outcome)
	case response.StudentsResponse:
		o.printStudents(v.Students)
	case response.CreateStudentResponse:
		o.printStudents([]response.Student{v.Student})
	case response.ResultsResponse:
		o.printResults(v.Results)
	case response.Health:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printLoginResult(r LoginResult) {
	_, _ = fmt.Fprintf(o.w, "Logged in as %s %s\n", r.Role, r.LoginID)
	if r.Remember {
		_, _ = fmt.Fprintln(o.w, "Session will be remembered")
	}
}

func (o *Output) printPlayer(p response.Player) {
	_, _ = fmt.Fprintf(o.w, "Student: %s %s (%s)\n", p.FirstName, p.LastName, p.LoginID)
	_, _ = fmt.Fprintf(o.w, "Condition: %s\n", p.Condition)
	_, _ = fmt.Fprintf(o.w, "Question sets played: %d\n", p.GamesPlayed)
	_, _ = fmt.Fprintf(o.w, "Available stages: %s\n", strings.Join(p.AvailableStages, ", "))
}

func (o *Output) printOutcome(r response.Outcome) {
	_, _ = fmt.Fprintf(o.w, "Recorded outcome %d for stage %s\n", r.ID, r.StageID)
	_, _ = fmt.Fprintf(o.w, "Score: %d\n", r.Score)
	if r.Medal != "" {
		_, _ = fmt.Fprintf(o.w, "Medal: %s\n", r.Medal)
	}
}

func (o *Output) printStudents(students []response.Student) {
	if len(students) == 0 {
		_, _ = fmt.Fprintln(o.w, "No students")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LOGIN\tROSTER\tNAME\tCONDITION\tINSTRUCTOR\tGAMES")
	for _, s := range students {
		games := "-"
		if s.GameCount != nil {
			games = fmt.Sprintf("%d", *s.GameCount)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.LoginID, s.RosterID, strings.TrimSpace(s.FirstName+" "+s.LastName), s.Condition, s.InstructorLoginID, games)
	}
	_ = tw.Flush()
}

func (o *Output) printResults(results []response.Result) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(o.w, "No results")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LOGIN\tSTAGE\tSET\tSCORE\tMEDAL\tELAPSED")
	for _, r := range results {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%dms\n",
			r.LoginID, r.StageID, r.QuestionSetID, r.Score, r.Medal, r.ElapsedMS)
	}
	_ = tw.Flush()
}
