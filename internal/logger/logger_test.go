package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestComponentCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf).With().Str("run_id", "run-1").Logger()
	ctx := WithContext(context.Background(), base)

	log := Component(ctx, "uploader")
	log.Info().Int("rows", 3).Msg("progress")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "uploader", entry["component"])
	assert.Equal(t, "progress", entry["message"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestFromContextWithoutLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}
