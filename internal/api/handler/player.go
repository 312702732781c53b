package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/api/middleware"
	"github.com/mcoot/fluency-harness/internal/api/request"
	"github.com/mcoot/fluency-harness/internal/api/response"
	"github.com/mcoot/fluency-harness/internal/services/game"
)

// PlayerHandler handles the student's game endpoints
type PlayerHandler struct {
	gameController *game.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(gameController *game.Controller) *PlayerHandler {
	return &PlayerHandler{
		gameController: gameController,
	}
}

// GetPlayer handles GET /api/player
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	state := middleware.MustGetPlayerState(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerResponse{Player: response.PlayerFromState(state)})
}

// RecordOutcome handles POST /api/outcomes
func (h *PlayerHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	state := middleware.MustGetPlayerState(r.Context())

	var req request.RecordOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.StageID == "" {
		WriteError(w, NewValidationError("stageID is required"))
		return
	}

	input := game.OutcomeInput{
		StageID:       req.StageID,
		QuestionSetID: req.QuestionSetID,
		Score:         req.Score,
		Medal:         req.Medal,
		ElapsedMS:     req.ElapsedMS,
		Data:          req.Data,
	}
	if req.EndTime != nil {
		input.EndTime = *req.EndTime
	}

	outcome, err := h.gameController.RecordOutcome(r.Context(), state, input)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.OutcomeResponse{Outcome: response.OutcomeFromModel(outcome)})
}
