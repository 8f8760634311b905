package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	runner := NewRunner("instant_delivery_vehicles")
	assert.Equal(t, "1.0.0", runner.Version())

	stmts := runner.Statements()
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], `CREATE TABLE IF NOT EXISTS "instant_delivery_vehicles"`)
	assert.Contains(t, stmts[0], "price NUMERIC")
	assert.Contains(t, stmts[0], "source TEXT NOT NULL")
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_instant_delivery_vehicles_source" ON "instant_delivery_vehicles" (source)`, stmts[1])
}
