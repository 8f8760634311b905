package app

import (
	"context"

	"instantload/internal/errors"
	"instantload/internal/logger"
	"instantload/ports"
)

// Replacer clears a source partition of the remote table
type Replacer struct {
	table ports.VehicleTable
}

// NewReplacer creates a replacer over table
func NewReplacer(table ports.VehicleTable) *Replacer {
	return &Replacer{table: table}
}

// Replace deletes every row tagged with source. Any failure is a DeleteError.
func (r *Replacer) Replace(ctx context.Context, source string) (int, error) {
	log := logger.Component(ctx, "replacer")
	log.Info().Str("source", source).Msg("deleting previous rows")

	deleted, err := r.table.DeleteBySource(ctx, source)
	if err != nil {
		return 0, errors.DeleteError(source, err)
	}

	log.Info().Str("source", source).Int("deleted", deleted).Msg("previous rows deleted")
	return deleted, nil
}
