package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/fluency-harness/internal/api"
	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/api/response"
	"github.com/mcoot/fluency-harness/internal/dependencies/mocks"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/game"
	"github.com/mcoot/fluency-harness/internal/storage/memory"
	"github.com/mcoot/fluency-harness/internal/testutil"
)

// testServer wires the API router to an in-memory store
type testServer struct {
	handler    http.Handler
	storage    *memory.Storage
	controller *game.Controller
	student    *model.Student
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	storage := memory.New()
	clock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	controller := game.NewController(storage, clock, game.Config{
		Stages: []string{"stage-1", "stage-2"},
	}, testutil.NopLogger())

	ctx := context.Background()
	instructor := &model.Instructor{LoginID: "mrs-smith"}
	require.NoError(t, storage.SaveInstructor(ctx, instructor))
	student := &model.Student{LoginID: "alice", InstructorID: instructor.ID, Condition: "control"}
	require.NoError(t, storage.CreateStudent(ctx, student))

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: controller,
	})

	return &testServer{
		handler:    router,
		storage:    storage,
		controller: controller,
		student:    student,
	}
}

// request sends a request, attaching the student's state when asStudent is set
func (ts *testServer) request(t *testing.T, method, path string, body any, asStudent bool) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if asStudent {
		state, err := ts.controller.GetPlayerState(req.Context(), ts.student.ID)
		require.NoError(t, err)
		req = req.WithContext(api.WithPlayerState(req.Context(), state))
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestPlayerStateAttachment(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, api.PlayerState(ctx))

	state := &game.PlayerState{Student: model.Student{LoginID: "alice"}}
	assert.Same(t, state, api.PlayerState(api.WithPlayerState(ctx, state)))
}

func TestAPIRequiresStudent(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(t, http.MethodGet, "/api/player", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.KindUnauthenticated, decodeError(t, rr).Kind)

	rr = ts.request(t, http.MethodPost, "/api/outcomes", map[string]any{"stageID": "stage-1"}, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(t, http.MethodGet, "/api/player", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.PlayerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Player.LoginID)
	assert.Equal(t, "control", resp.Player.Condition)
	assert.Equal(t, []string{"stage-1"}, resp.Player.AvailableStages)
}

func TestRecordOutcome(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(t, http.MethodPost, "/api/outcomes", map[string]any{
		"stageID":       "stage-1",
		"questionSetID": "qs-1",
		"score":         14,
		"medal":         "silver",
		"elapsedMS":     52000,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.OutcomeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "stage-1", resp.Outcome.StageID)
	assert.Equal(t, 14, resp.Outcome.Score)
	assert.Equal(t, "control", resp.Outcome.Condition)

	// The next request sees the newly unlocked stage
	rr = ts.request(t, http.MethodGet, "/api/player", nil, true)
	var player response.PlayerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	assert.Equal(t, []string{"stage-1", "stage-2"}, player.Player.AvailableStages)
}

func TestRecordOutcomeValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(t, http.MethodPost, "/api/outcomes", map[string]any{"stageID": "stage-2"}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.KindValidationFailure, decodeError(t, rr).Kind)

	rr = ts.request(t, http.MethodPost, "/api/outcomes", map[string]any{}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "stageID is required", decodeError(t, rr).Message)
}

func TestRecordOutcomeMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/outcomes", bytes.NewBufferString("{not json"))
	state, err := ts.controller.GetPlayerState(req.Context(), ts.student.ID)
	require.NoError(t, err)
	req = req.WithContext(api.WithPlayerState(req.Context(), state))

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(t, http.MethodGet, "/api/nope", nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
