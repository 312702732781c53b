package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/storage"
)

const studentSummaryQuery = `
	SELECT
		students.id,
		students.roster_id,
		students.login_id,
		students.first_name,
		students.last_name,
		students.condition,
		instructors.login_id AS instructor_login_id,
		game_counts.game_count
	FROM students
		INNER JOIN instructors ON instructors.id = students.instructor_id
		LEFT JOIN (
			SELECT student_id, COUNT(*)::INTEGER AS game_count
			FROM question_set_outcomes
			GROUP BY student_id
		) game_counts ON game_counts.student_id = students.id
`

const outcomeResultQuery = `
	SELECT
		students.roster_id,
		students.login_id,
		students.instructor_id,
		question_set_outcomes.condition,
		question_set_outcomes.stage_id,
		question_set_outcomes.question_set_id,
		question_set_outcomes.score,
		question_set_outcomes.medal,
		question_set_outcomes.elapsed_ms,
		question_set_outcomes.end_time,
		question_set_outcomes.data_file
	FROM question_set_outcomes
		INNER JOIN students ON students.id = question_set_outcomes.student_id
`

// scopeClause renders the WHERE clause that restricts a reporting query to
// scope. column names the owning instructor column of the query.
func scopeClause(scope storage.Scope, column string) (string, []any) {
	if scope.IsUnrestricted() {
		return "", nil
	}
	id, ok := scope.InstructorID()
	if !ok {
		return "WHERE FALSE", nil
	}
	return fmt.Sprintf("WHERE %s = $1", column), []any{id}
}

func (s *Storage) logQuery(query string, args []any) {
	if !s.debug {
		return
	}
	s.logger.Debug("reporting query",
		slog.String("query", strings.Join(strings.Fields(query), " ")),
		slog.Any("params", args),
	)
}

func (s *Storage) ListStudentSummaries(ctx context.Context, scope storage.Scope) ([]model.StudentSummary, error) {
	where, args := scopeClause(scope, "instructors.id")
	query := studentSummaryQuery + where + " ORDER BY students.id"
	s.logQuery(query, args)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query student summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.StudentSummary, 0)
	for rows.Next() {
		var row model.StudentSummary
		if err := rows.Scan(&row.StudentID, &row.RosterID, &row.LoginID, &row.FirstName, &row.LastName,
			&row.Condition, &row.InstructorLoginID, &row.GameCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, row)
	}
	return summaries, rows.Err()
}

func (s *Storage) ListOutcomeResults(ctx context.Context, scope storage.Scope) ([]model.OutcomeResult, error) {
	where, args := scopeClause(scope, "students.instructor_id")
	query := outcomeResultQuery + where + " ORDER BY question_set_outcomes.id"
	s.logQuery(query, args)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcome results: %w", err)
	}
	defer rows.Close()

	results := make([]model.OutcomeResult, 0)
	for rows.Next() {
		var row model.OutcomeResult
		if err := rows.Scan(&row.RosterID, &row.LoginID, &row.InstructorID, &row.Condition, &row.StageID,
			&row.QuestionSetID, &row.Score, &row.Medal, &row.ElapsedMS, &row.EndTime, &row.DataFile); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
