package ports

import (
	"context"

	"instantload/domain/listing"
)

// VehicleTable is the remote table holding instant delivery listings,
// partitioned by source tag
type VehicleTable interface {
	// DeleteBySource removes every row whose source equals source and
	// returns how many rows were removed
	DeleteBySource(ctx context.Context, source string) (int, error)

	// InsertMany inserts rows in a single call; either all rows are stored
	// or the call fails
	InsertMany(ctx context.Context, rows []listing.Row) error

	// Insert inserts a single row
	Insert(ctx context.Context, row listing.Row) error

	// CountBySource returns the number of stored rows for source
	CountBySource(ctx context.Context, source string) (int, error)

	// Close releases the connection
	Close() error
}
