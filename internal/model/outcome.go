package model

import "time"

// OutcomeID uniquely identifies a recorded question set outcome
type OutcomeID int64

// QuestionSetOutcome records one completed question set for a student
type QuestionSetOutcome struct {
	ID            OutcomeID
	StudentID     StudentID
	Condition     string
	StageID       string
	QuestionSetID string
	Score         int
	Medal         string
	ElapsedMS     int64
	EndTime       time.Time
	DataFile      string
	CreatedAt     time.Time
}

// OutcomeResult is a reporting row: an outcome joined with its student
type OutcomeResult struct {
	RosterID      string
	LoginID       string
	InstructorID  InstructorID
	Condition     string
	StageID       string
	QuestionSetID string
	Score         int
	Medal         string
	ElapsedMS     int64
	EndTime       time.Time
	DataFile      string
}
