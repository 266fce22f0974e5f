package repository

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

// Column types are kept to TEXT/INTEGER so one DDL serves SQLite and Postgres.
// JSON payloads are stored as TEXT, timestamps as RFC 3339 TEXT.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		schemes INTEGER NOT NULL DEFAULT 0,
		students INTEGER NOT NULL DEFAULT 0,
		repeated_schemes INTEGER NOT NULL DEFAULT 0,
		stats TEXT,
		error TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS schemes (
		scheme_id TEXT PRIMARY KEY,
		prg_code TEXT NOT NULL,
		programme TEXT NOT NULL,
		semester INTEGER NOT NULL,
		institutes TEXT NOT NULL,
		subjects TEXT NOT NULL,
		run_id TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS student_results (
		enrollment TEXT NOT NULL,
		scheme_id TEXT NOT NULL,
		semester INTEGER NOT NULL,
		exam TEXT NOT NULL,
		name TEXT NOT NULL,
		sid TEXT NOT NULL,
		inst_code INTEGER NOT NULL,
		inst_name TEXT NOT NULL,
		batch INTEGER NOT NULL,
		prg_code TEXT NOT NULL,
		programme TEXT NOT NULL,
		declared_date TEXT,
		subjects TEXT NOT NULL,
		run_id TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (enrollment, scheme_id, semester, exam)
	)`,
	`CREATE INDEX IF NOT EXISTS student_results_scheme_idx ON student_results (scheme_id)`,
}

// Migrate creates the tables when they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range ddl {
		if err := db.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("%w: migrate: %v", common.ErrDatabase, err)
		}
	}
	return nil
}
