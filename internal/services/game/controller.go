package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/fluency-harness/internal/dependencies/clock"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/storage"
)

// Config holds the experiment layout served to students
type Config struct {
	// Conditions are the experimental condition names students can be assigned to
	Conditions []string

	// Stages are stage IDs in unlock order
	Stages []string

	// OutputPath is where raw question set data files are written.
	// Empty disables data files.
	OutputPath string
}

// DefaultConfig returns the default experiment layout
func DefaultConfig() Config {
	return Config{
		Conditions: []string{"control", "experimental"},
		Stages:     []string{"addition-1", "addition-2", "subtraction-1", "subtraction-2"},
	}
}

// PlayerState is a student together with their game progress
type PlayerState struct {
	Student         model.Student
	GamesPlayed     int
	AvailableStages []string
}

// OutcomeInput is a completed question set reported by the client
type OutcomeInput struct {
	StageID       string
	QuestionSetID string
	Score         int
	Medal         string
	ElapsedMS     int64
	EndTime       time.Time

	// Data is the raw question set log, written to a data file when present
	Data json.RawMessage
}

// Controller serves stage progress and records outcomes
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// ConditionNames returns every configured experimental condition
func (c *Controller) ConditionNames() []string {
	return slices.Clone(c.cfg.Conditions)
}

// Stages returns every configured stage in unlock order
func (c *Controller) Stages() []string {
	return slices.Clone(c.cfg.Stages)
}

// AvailableStages returns the stages a student may play given their outcomes.
// The first stage is always open; each later stage opens once the one
// before it has at least one recorded outcome.
func AvailableStages(stages []string, outcomes []*model.QuestionSetOutcome) []string {
	played := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		played[o.StageID] = true
	}

	available := make([]string, 0, len(stages))
	for i, stage := range stages {
		if i > 0 && !played[stages[i-1]] {
			break
		}
		available = append(available, stage)
	}
	return available
}

// GetPlayerState loads a student and derives their progress.
// Returns model.ErrStudentNotFound if the student no longer exists.
func (c *Controller) GetPlayerState(ctx context.Context, studentID model.StudentID) (*PlayerState, error) {
	student, err := c.storage.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	outcomes, err := c.storage.GetOutcomesForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes: %w", err)
	}

	return &PlayerState{
		Student:         *student,
		GamesPlayed:     len(outcomes),
		AvailableStages: AvailableStages(c.cfg.Stages, outcomes),
	}, nil
}

// RecordOutcome stores a completed question set for the player.
// The stage must currently be available to them.
func (c *Controller) RecordOutcome(ctx context.Context, state *PlayerState, input OutcomeInput) (*model.QuestionSetOutcome, error) {
	if input.StageID == "" || !slices.Contains(state.AvailableStages, input.StageID) {
		return nil, fmt.Errorf("%w: stage %q is not available", model.ErrInvalidOutcome, input.StageID)
	}
	if input.Score < 0 || input.ElapsedMS < 0 {
		return nil, fmt.Errorf("%w: score and elapsed time must not be negative", model.ErrInvalidOutcome)
	}

	endTime := input.EndTime
	if endTime.IsZero() {
		endTime = c.clock.Now()
	}

	outcome := &model.QuestionSetOutcome{
		StudentID:     state.Student.ID,
		Condition:     state.Student.Condition,
		StageID:       input.StageID,
		QuestionSetID: input.QuestionSetID,
		Score:         input.Score,
		Medal:         input.Medal,
		ElapsedMS:     input.ElapsedMS,
		EndTime:       endTime,
		CreatedAt:     c.clock.Now(),
	}

	if len(input.Data) > 0 && c.cfg.OutputPath != "" {
		dataFile, err := c.writeDataFile(state.Student, input.Data)
		if err != nil {
			return nil, err
		}
		outcome.DataFile = dataFile
	}

	if err := c.storage.SaveOutcome(ctx, outcome); err != nil {
		c.logger.Error("failed to save outcome",
			slog.Int64("student_id", int64(state.Student.ID)),
			slog.String("stage_id", input.StageID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("outcome recorded",
		slog.Int64("student_id", int64(state.Student.ID)),
		slog.String("stage_id", outcome.StageID),
		slog.Int("score", outcome.Score),
	)

	return outcome, nil
}

// writeDataFile stores raw question set data under
// <condition>/<student ID>/ and returns its path relative to the output
// directory. Conditions outside the configured set are filed under "none".
func (c *Controller) writeDataFile(student model.Student, data json.RawMessage) (string, error) {
	condition := student.Condition
	if !slices.Contains(c.cfg.Conditions, condition) {
		condition = "none"
	}
	rel := filepath.Join(condition, strconv.FormatInt(int64(student.ID), 10), uuid.NewString()+".json")
	full := filepath.Join(c.cfg.OutputPath, rel)
	if !withinDir(c.cfg.OutputPath, full) {
		return "", fmt.Errorf("data file %q is outside the output directory", rel)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write data file: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
