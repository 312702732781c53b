package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/fluency-harness/internal/session"
)

// Client is an HTTP client for the fluency server. It authenticates with
// the session cookie the server issues on login.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Gated routes answer with a redirect; report it instead of following
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// SetToken updates the client's token
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError represents an error response from the server
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) String() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// RedirectError is returned when the server redirects instead of answering,
// which is how it turns away callers without access to a page
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("not permitted: server redirected to %s (log in with an account that has access)", e.Location)
}

// ErrNoSessionCookie means a login succeeded without issuing a session
var ErrNoSessionCookie = errors.New("server did not issue a session cookie")

func (c *Client) send(method, path string, body any) (*http.Response, []byte, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp, respBody, nil
}

func responseError(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return &RedirectError{Location: resp.Header.Get("Location")}
	}
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Kind != "" {
			return fmt.Errorf("%s", errResp.Error.String())
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Do performs an HTTP request and decodes a JSON response into result
func (c *Client) Do(method, path string, body, result any) error {
	resp, respBody, err := c.send(method, path, body)
	if err != nil {
		return err
	}

	// Check for error responses
	if err := responseError(resp, respBody); err != nil {
		return err
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// Login authenticates as role and returns the issued session token
func (c *Client) Login(role string, body any) (string, error) {
	resp, respBody, err := c.send(http.MethodPost, "/login/"+role, body)
	if err != nil {
		return "", err
	}
	if err := responseError(resp, respBody); err != nil {
		return "", err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName && cookie.Value != "" {
			c.token = cookie.Value
			return cookie.Value, nil
		}
	}
	return "", ErrNoSessionCookie
}

// Logout ends the current session. The server always answers with a
// redirect to its root.
func (c *Client) Logout() error {
	resp, respBody, err := c.send(http.MethodGet, "/logout", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusSeeOther {
		return responseError(resp, respBody)
	}
	c.token = ""
	return nil
}
