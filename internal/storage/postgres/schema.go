package postgres

import (
	"context"
	"fmt"
)

// schema is applied by Migrate. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS instructors (
		id            BIGSERIAL PRIMARY KEY,
		login_id      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id            BIGSERIAL PRIMARY KEY,
		instructor_id BIGINT NOT NULL,
		roster_id     TEXT NOT NULL DEFAULT '',
		login_id      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		condition     TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS students_instructor_id_idx ON students (instructor_id)`,
	`CREATE TABLE IF NOT EXISTS question_set_outcomes (
		id              BIGSERIAL PRIMARY KEY,
		student_id      BIGINT NOT NULL REFERENCES students (id) ON DELETE CASCADE,
		condition       TEXT NOT NULL DEFAULT '',
		stage_id        TEXT NOT NULL,
		question_set_id TEXT NOT NULL DEFAULT '',
		score           INTEGER NOT NULL DEFAULT 0,
		medal           TEXT NOT NULL DEFAULT '',
		elapsed_ms      BIGINT NOT NULL DEFAULT 0,
		end_time        TIMESTAMPTZ NOT NULL,
		data_file       TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS question_set_outcomes_student_id_idx ON question_set_outcomes (student_id)`,
}

// Migrate creates the tables the store needs if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
