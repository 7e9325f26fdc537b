package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", false)

	logger.Info().Msg("hidden")
	logger.Warn().Str("product_id", "7").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "productapi", entry["service"])
	assert.Equal(t, "7", entry["product_id"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "chatty", false)

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
