package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestNewWritesJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(Config{Level: WarnLevel, Output: &buf, Service: "techhub"})

	lgr.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	lgr.Warn().Str("path", "/api/events").Msg("slow request")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "techhub", entry["service"])
	assert.Equal(t, "/api/events", entry["path"])
	assert.Equal(t, "slow request", entry["message"])
}
