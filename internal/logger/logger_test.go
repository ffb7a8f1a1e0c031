package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Out: &buf})
	l.WithComponent("build").Info().Int("titles", 3).Msg("built")
	l.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), `"component":"build"`)
	assert.Contains(t, buf.String(), `"titles":3`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_QuietWritesFileOnly(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	l := New(Config{Level: "debug", Format: "json", Path: dir, Quiet: true, Out: &buf})
	l.Info().Msg("to file")
	require.NoError(t, l.Close())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(filepath.Join(dir, "netflix-explorer.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
