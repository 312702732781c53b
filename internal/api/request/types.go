package request

import (
	"encoding/json"
	"time"
)

// LoginRequest is the body of a login form post
type LoginRequest struct {
	LoginID  string `json:"loginID"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// CreateStudentRequest is the body of an instructor's add-student post
type CreateStudentRequest struct {
	LoginID   string `json:"loginID"`
	Password  string `json:"password"`
	RosterID  string `json:"rosterID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Condition string `json:"condition"`
}

// RecordOutcomeRequest is a completed question set reported by the game client
type RecordOutcomeRequest struct {
	StageID       string          `json:"stageID"`
	QuestionSetID string          `json:"questionSetID"`
	Score         int             `json:"score"`
	Medal         string          `json:"medal"`
	ElapsedMS     int64           `json:"elapsedMS"`
	EndTime       *time.Time      `json:"endTime,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}
