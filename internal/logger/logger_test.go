package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Format: "json"}, &buf, zerolog.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Str("symbol", "BTC").Msg("collected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "BTC", entry["symbol"])
	assert.Equal(t, "collected", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Format: "console"}, &buf, zerolog.DebugLevel)
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "sentinel.log")
	log, err := New(Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}
