package migration

import (
	"context"

	"gosppt/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every statement
// is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range Steps {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.Wrapf(err, "failed to %s", step.Name)
		}
	}
	return nil
}

// Step is one named schema statement.
type Step struct {
	Name string
	SQL  string
}

// Steps lists the schema statements in execution order.
var Steps = []Step{
	{
		Name: "create sppt_runs table",
		SQL: `
		CREATE TABLE IF NOT EXISTS sppt_runs (
			id UUID PRIMARY KEY,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			count_cols TEXT NOT NULL,
			total_units INTEGER NOT NULL,
			b INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			conf_level DOUBLE PRECISION NOT NULL,
			use_percentages BOOLEAN NOT NULL,
			fix_base BOOLEAN NOT NULL,
			check_overlap BOOLEAN NOT NULL,
			s_index DOUBLE PRECISION,
			robust_s_index DOUBLE PRECISION,
			fingerprint VARCHAR(64) NOT NULL,
			payload JSONB NOT NULL
		)`,
	},
	{
		Name: "create sppt_runs indexes",
		SQL: `
		CREATE INDEX IF NOT EXISTS idx_sppt_runs_created_at ON sppt_runs(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sppt_runs_fingerprint ON sppt_runs(fingerprint)`,
	},
}
