package main

import (
	"context"

	"github.com/spf13/cobra"
)

// schema matches the column lists the repositories read and write. Sections
// are derived per pass and never persisted, so there is no sections table.
const schema = `
CREATE TABLE IF NOT EXISTS students (
    id         TEXT PRIMARY KEY,
    code       TEXT NOT NULL UNIQUE,
    full_name  TEXT NOT NULL,
    email      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS courses (
    id              TEXT PRIMARY KEY,
    code            TEXT NOT NULL UNIQUE,
    name            TEXT NOT NULL,
    capacity        INTEGER NOT NULL,
    instructor      TEXT NOT NULL DEFAULT '',
    prerequisite_id TEXT REFERENCES courses(id),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS timeslots (
    id           TEXT PRIMARY KEY,
    day          INTEGER NOT NULL,
    start_minute INTEGER NOT NULL,
    end_minute   INTEGER NOT NULL,
    room         TEXT NOT NULL DEFAULT '',
    CHECK (end_minute > start_minute)
);

CREATE TABLE IF NOT EXISTS preferences (
    id         TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(id),
    course_id  TEXT NOT NULL REFERENCES courses(id),
    priority   INTEGER NOT NULL CHECK (priority BETWEEN 1 AND 5),
    UNIQUE (student_id, course_id)
);

CREATE TABLE IF NOT EXISTS assignments (
    id         TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(id),
    course_id  TEXT NOT NULL REFERENCES courses(id),
    section_id TEXT NOT NULL,
    term       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_preferences_student ON preferences(student_id);
CREATE INDEX IF NOT EXISTS idx_assignments_term ON assignments(term);
CREATE INDEX IF NOT EXISTS idx_assignments_term_student ON assignments(term, student_id);
`

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if _, err := e.db.ExecContext(context.Background(), schema); err != nil {
			return err
		}
		e.logr.Sugar().Infow("schema applied", "database", e.cfg.Database.Name)
		return nil
	},
}
