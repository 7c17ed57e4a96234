package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "info", Format: "json", Output: buf})

	log.Info("wrote config")

	entry := decode(t, buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "wrote config", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_ConsoleOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "info", Format: "console", Output: buf})

	log.Info("extracting schema")

	assert.Contains(t, buf.String(), "extracting schema")
	assert.Contains(t, buf.String(), "INF")
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "info", Format: "json", Output: buf})

	child := log.With().
		Str("database", "app").
		Int("tables", 12).
		Strs("rules", []string{"ends-with"}).
		Logger()
	child.Info("snapshot ready")

	entry := decode(t, buf)
	assert.Equal(t, "app", entry["database"])
	assert.Equal(t, float64(12), entry["tables"])
	assert.Equal(t, []interface{}{"ends-with"}, entry["rules"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "warn", Format: "json", Output: buf})

	log.Debug("debug")
	log.Debugf("debug %d", 1)
	log.Info("info")
	assert.Empty(t, buf.String())

	log.Warnf("skipped %d pairs", 2)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "skipped 2 pairs")
}

func TestLogger_ErrorWith(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "error", Format: "json", Output: buf})

	log.ErrorWith("run failed", errors.New("connection refused"), map[string]interface{}{
		"phase": "extraction",
	})

	entry := decode(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "run failed", entry["message"])
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, "extraction", entry["phase"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("nothing happens")
	log.Warnf("nothing %s", "happens")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
