package response

import (
	"time"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/game"
)

// Player represents a student's game state in API responses
type Player struct {
	LoginID         string   `json:"loginID"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Condition       string   `json:"condition"`
	GamesPlayed     int      `json:"gamesPlayed"`
	AvailableStages []string `json:"availableStages"`
}

// PlayerFromState converts a game.PlayerState to a response Player
func PlayerFromState(p *game.PlayerState) Player {
	stages := p.AvailableStages
	if stages == nil {
		stages = []string{}
	}
	return Player{
		LoginID:         p.Student.LoginID,
		FirstName:       p.Student.FirstName,
		LastName:        p.Student.LastName,
		Condition:       p.Student.Condition,
		GamesPlayed:     p.GamesPlayed,
		AvailableStages: stages,
	}
}

// PlayerResponse wraps a Player
type PlayerResponse struct {
	Player Player `json:"player"`
}

// Outcome represents a recorded question set outcome
type Outcome struct {
	ID            int64     `json:"id"`
	Condition     string    `json:"condition"`
	StageID       string    `json:"stageID"`
	QuestionSetID string    `json:"questionSetID"`
	Score         int       `json:"score"`
	Medal         string    `json:"medal"`
	ElapsedMS     int64     `json:"elapsedMS"`
	EndTime       time.Time `json:"endTime"`
	DataFile      string    `json:"dataFile"`
}

// OutcomeFromModel converts a model.QuestionSetOutcome
func OutcomeFromModel(o *model.QuestionSetOutcome) Outcome {
	return Outcome{
		ID:            int64(o.ID),
		Condition:     o.Condition,
		StageID:       o.StageID,
		QuestionSetID: o.QuestionSetID,
		Score:         o.Score,
		Medal:         o.Medal,
		ElapsedMS:     o.ElapsedMS,
		EndTime:       o.EndTime,
		DataFile:      o.DataFile,
	}
}

// OutcomeResponse wraps an Outcome
type OutcomeResponse struct {
	Outcome Outcome `json:"outcome"`
}

// Student is a row of the instructor's student report
type Student struct {
	RosterID          string `json:"rosterID"`
	LoginID           string `json:"loginID"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Condition         string `json:"condition"`
	InstructorLoginID string `json:"instructorLoginID"`
	GameCount         *int   `json:"gameCount"`
}

// StudentFromModel converts a model.StudentSummary
func StudentFromModel(s model.StudentSummary) Student {
	return Student{
		RosterID:          s.RosterID,
		LoginID:           s.LoginID,
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		Condition:         s.Condition,
		InstructorLoginID: s.InstructorLoginID,
		GameCount:         s.GameCount,
	}
}

// StudentsResponse is the body of the student report
type StudentsResponse struct {
	Students []Student `json:"students"`
}

// StudentsFromModel converts a report, never returning a nil slice
func StudentsFromModel(rows []model.StudentSummary) StudentsResponse {
	students := make([]Student, len(rows))
	for i, row := range rows {
		students[i] = StudentFromModel(row)
	}
	return StudentsResponse{Students: students}
}

// CreateStudentResponse is the body returned after adding a student
type CreateStudentResponse struct {
	Student Student `json:"student"`
}

// Result is a row of the instructor's results report
type Result struct {
	RosterID      string    `json:"rosterID"`
	LoginID       string    `json:"loginID"`
	Condition     string    `json:"condition"`
	StageID       string    `json:"stageID"`
	QuestionSetID string    `json:"questionSetID"`
	Score         int       `json:"score"`
	Medal         string    `json:"medal"`
	ElapsedMS     int64     `json:"elapsedMS"`
	EndTime       time.Time `json:"endTime"`
	DataFile      string    `json:"dataFile"`
}

// ResultsResponse is the body of the results report
type ResultsResponse struct {
	Results []Result `json:"results"`
}

// ResultsFromModel converts a report, never returning a nil slice
func ResultsFromModel(rows []model.OutcomeResult) ResultsResponse {
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = Result{
			RosterID:      row.RosterID,
			LoginID:       row.LoginID,
			Condition:     row.Condition,
			StageID:       row.StageID,
			QuestionSetID: row.QuestionSetID,
			Score:         row.Score,
			Medal:         row.Medal,
			ElapsedMS:     row.ElapsedMS,
			EndTime:       row.EndTime,
			DataFile:      row.DataFile,
		}
	}
	return ResultsResponse{Results: results}
}

// Health is the body of the health check
type Health struct {
	Status string `json:"status"`
}
