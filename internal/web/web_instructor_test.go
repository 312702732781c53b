package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/api/response"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/storage"
)

func studentLoginIDs(students []response.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.LoginID)
	}
	return ids
}

func TestReportsScopedForNonAdmin(t *testing.T) {
	ts := newWebTestServer(t)
	smith := ts.createInstructor("smith", "apple", false)
	jones := ts.createInstructor("jones", "pear", false)
	alice := ts.createStudent(smith, "alice", "alicepw")
	ts.createStudent(jones, "bob", "bobpw")
	require.NoError(t, ts.app.Storage.SaveOutcome(t.Context(), &model.QuestionSetOutcome{
		StudentID: alice.ID, StageID: "addition-1", Score: 7, EndTime: ts.app.MockClock.Now(),
	}))

	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.get("/instructor/students")
	require.Equal(t, http.StatusOK, rr.Code)
	var students response.StudentsResponse
	decodeJSON(t, rr, &students)
	assert.Equal(t, []string{"alice"}, studentLoginIDs(students.Students))
	assert.Equal(t, "smith", students.Students[0].InstructorLoginID)
	require.NotNil(t, students.Students[0].GameCount)
	assert.Equal(t, 1, *students.Students[0].GameCount)

	rr = ts.get("/instructor/students/results")
	require.Equal(t, http.StatusOK, rr.Code)
	var results response.ResultsResponse
	decodeJSON(t, rr, &results)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "alice", results.Results[0].LoginID)
	assert.Equal(t, 7, results.Results[0].Score)
}

func TestReportsUnrestrictedForAdmin(t *testing.T) {
	ts := newWebTestServer(t)
	smith := ts.createInstructor("smith", "apple", true)
	jones := ts.createInstructor("jones", "pear", false)
	ts.createStudent(smith, "alice", "alicepw")
	ts.createStudent(jones, "bob", "bobpw")

	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.get("/instructor/students")
	require.Equal(t, http.StatusOK, rr.Code)
	var students response.StudentsResponse
	decodeJSON(t, rr, &students)
	assert.ElementsMatch(t, []string{"alice", "bob"}, studentLoginIDs(students.Students))

	rr = ts.get("/instructor/students/results")
	require.Equal(t, http.StatusOK, rr.Code)
	var results response.ResultsResponse
	decodeJSON(t, rr, &results)
	assert.NotNil(t, results.Results)
	assert.Empty(t, results.Results)

	rr = ts.get("/instructor")
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsElement(t, parseHTML(rr.Body), ".admin")
}

func TestEmptyRosterReportsEmptyList(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createInstructor("smith", "apple", false)
	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.get("/instructor/students")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"students":[]}`, rr.Body.String())
}

func TestInstructorPageListsConditions(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createInstructor("smith", "apple", false)
	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.get("/instructor")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assert.Equal(t, 2, doc.Find("ul.conditions li").Length())
	assertContainsElement(t, doc, "form#create-student")
}

func TestCreateStudent(t *testing.T) {
	ts := newWebTestServer(t)
	smith := ts.createInstructor("smith", "apple", false)
	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.postJSON("/instructor/student", map[string]any{
		"loginID":   "carol",
		"password":  "carolpw",
		"rosterID":  "07",
		"firstName": "Carol",
		"condition": "experimental",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var created response.CreateStudentResponse
	decodeJSON(t, rr, &created)
	assert.Equal(t, "carol", created.Student.LoginID)
	assert.Equal(t, "smith", created.Student.InstructorLoginID)
	assert.Nil(t, created.Student.GameCount)

	student, err := ts.app.Storage.GetStudentByLoginID(t.Context(), "carol")
	require.NoError(t, err)
	assert.Equal(t, smith.ID, student.InstructorID)

	// The new student can log in
	ts.login(model.RoleStudent, "carol", "carolpw", false)
}

func TestCreateStudentForm(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createInstructor("smith", "apple", false)
	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.post("/instructor/student", url.Values{"loginID": {"dave"}, "password": {"davepw"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	_, err := ts.app.Storage.GetStudentByLoginID(t.Context(), "dave")
	assert.NoError(t, err)
}

func TestCreateStudentEmptyLoginID(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createInstructor("smith", "apple", true)
	ts.login(model.RoleInstructor, "smith", "apple", false)

	for _, loginID := range []string{"", "   "} {
		rr := ts.postJSON("/instructor/student", map[string]any{"loginID": loginID, "password": "pw"})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, apierr.KindValidationFailure, decodeError(t, rr).Error.Kind)
	}

	summaries, err := ts.app.Storage.ListStudentSummaries(t.Context(), storage.Unrestricted())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestCreateStudentUnknownCondition(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createInstructor("smith", "apple", false)
	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.postJSON("/instructor/student", map[string]any{"loginID": "bob", "password": "pw", "condition": "../../up"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.KindValidationFailure, decodeError(t, rr).Error.Kind)

	summaries, err := ts.app.Storage.ListStudentSummaries(t.Context(), storage.Unrestricted())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestCreateStudentDuplicateLoginID(t *testing.T) {
	ts := newWebTestServer(t)
	smith := ts.createInstructor("smith", "apple", false)
	ts.createStudent(smith, "alice", "alicepw")
	ts.login(model.RoleInstructor, "smith", "apple", false)

	rr := ts.postJSON("/instructor/student", map[string]any{"loginID": "alice", "password": "pw"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.KindConflict, decodeError(t, rr).Error.Kind)
}

func TestCreateStudentRequiresInstructor(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.postJSON("/instructor/student", map[string]any{"loginID": "carol", "password": "pw"})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}
