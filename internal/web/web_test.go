package web_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/fluency-harness/internal/config"
	"github.com/mcoot/fluency-harness/internal/factory"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/session"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerWithConfig(t, factory.TestConfig())
}

func newWebTestServerWithConfig(t *testing.T, cfg config.Config) *webTestServer {
	t.Helper()

	app := factory.NewTestAppWithConfig(cfg)

	return &webTestServer{
		t:       t,
		handler: app.Router(),
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, "")
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// postJSON makes a POST request with a JSON body
func (ts *webTestServer) postJSON(path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	b, err := json.Marshal(body)
	require.NoError(ts.t, err)
	return ts.request(http.MethodPost, path, strings.NewReader(string(b)), "application/json")
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// apiError mirrors the JSON error envelope
type apiError struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apiError {
	t.Helper()
	var body apiError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body: %s", rr.Body.String())
	return body
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), into), "body: %s", rr.Body.String())
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// session returns the session cookie, or nil
func (j *cookieJar) session() *http.Cookie {
	return j.cookies[session.CookieName]
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	return j.session() != nil
}

// Helper functions for common test operations

func (ts *webTestServer) createInstructor(loginID, password string, isAdmin bool) *model.Instructor {
	ts.t.Helper()
	instructor, err := ts.app.CreateInstructor(ts.t.Context(), loginID, password, isAdmin)
	require.NoError(ts.t, err)
	return instructor
}

func (ts *webTestServer) createStudent(instructor *model.Instructor, loginID, password string) *model.Student {
	ts.t.Helper()
	student, err := ts.app.CreateStudent(ts.t.Context(), instructor, loginID, password)
	require.NoError(ts.t, err)
	return student
}

// login posts the login form for role and requires it to succeed
func (ts *webTestServer) login(role model.Role, loginID, password string, remember bool) *httptest.ResponseRecorder {
	ts.t.Helper()
	form := url.Values{"loginID": {loginID}, "password": {password}}
	if remember {
		form.Set("remember", "on")
	}
	rr := ts.post("/login/"+string(role), form)
	require.Equal(ts.t, http.StatusOK, rr.Code, "login failed: %s", rr.Body.String())
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
	return rr
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
