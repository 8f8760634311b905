package migration

import (
	"context"
	"fmt"

	"instantload/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the listing table on a Postgres database
type MigrationRunner struct {
	version string
	table   string
}

// NewRunner creates a migration runner for table
func NewRunner(table string) *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		table:   table,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range r.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to migrate table %s", r.table)
		}
	}
	return nil
}

// Statements returns the DDL Run executes
func (r *MigrationRunner) Statements() []string {
	table := pq.QuoteIdentifier(r.table)
	index := pq.QuoteIdentifier(fmt.Sprintf("idx_%s_source", r.table))
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			source TEXT NOT NULL,
			vehicle_name TEXT,
			options TEXT,
			exterior_color TEXT,
			interior_color TEXT,
			price NUMERIC,
			promotion TEXT,
			product_type TEXT,
			note TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (source)`, index, table),
	}
}
