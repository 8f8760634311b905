package postgres

import (
	"context"
	"fmt"
	"strings"

	"instantload/domain/listing"
	"instantload/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// vehicleRepository implements ports.VehicleTable on a SQL connection
type vehicleRepository struct {
	db      *sqlx.DB
	table   string
	columns []string
}

// NewVehicleRepository creates a repository over table. Queries are written
// with '?' placeholders and rebound for the connection's driver.
func NewVehicleRepository(db *sqlx.DB, table string) ports.VehicleTable {
	return &vehicleRepository{
		db:      db,
		table:   pq.QuoteIdentifier(table),
		columns: listing.CanonicalColumns,
	}
}

// Connect opens and pings a Postgres connection
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// DeleteBySource removes every row of the source partition
func (r *vehicleRepository) DeleteBySource(ctx context.Context, source string) (int, error) {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE source = ?`, r.table))

	result, err := r.db.ExecContext(ctx, query, source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete vehicles: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// InsertMany inserts rows with one multi-row INSERT statement
func (r *vehicleRepository) InsertMany(ctx context.Context, rows []listing.Row) error {
	if len(rows) == 0 {
		return nil
	}

	query, args := r.insertQuery(rows)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %d vehicles: %w", len(rows), err)
	}
	return nil
}

// Insert inserts a single row
func (r *vehicleRepository) Insert(ctx context.Context, row listing.Row) error {
	query, args := r.insertQuery([]listing.Row{row})
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

// CountBySource returns the size of the source partition
func (r *vehicleRepository) CountBySource(ctx context.Context, source string) (int, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE source = ?`, r.table))

	var count int
	if err := r.db.GetContext(ctx, &count, query, source); err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

// Close closes the underlying connection
func (r *vehicleRepository) Close() error {
	return r.db.Close()
}

func (r *vehicleRepository) insertQuery(rows []listing.Row) (string, []interface{}) {
	quoted := make([]string, len(r.columns))
	for i, c := range r.columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(r.columns)), ", ") + ")"
	tuples := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(r.columns))
	for i, row := range rows {
		tuples[i] = tuple
		args = append(args, row.Values(r.columns)...)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
		r.table, strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return r.db.Rebind(query), args
}
