package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.Equal(t, "pdfstruct", lines[0]["service"])
	assert.Equal(t, "warn", lines[0]["level"])
}

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "debug", Output: &buf})

	log.PipelineLogger("doc.pdf").LogPageWarning(3, "tables", errors.New("boom"))
	log.MCPLogger("pdf_structure_file").Info().Msg("call")
	log.WithFields(map[string]interface{}{"run": 7}).LogRunComplete(2, 1, time.Second)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "pipeline", lines[0]["component"])
	assert.Equal(t, "doc.pdf", lines[0]["source_file"])
	assert.Equal(t, float64(3), lines[0]["page"])
	assert.Equal(t, "tables", lines[0]["stage"])
	assert.Equal(t, "boom", lines[0]["error"])

	assert.Equal(t, "mcp", lines[1]["component"])
	assert.Equal(t, "pdf_structure_file", lines[1]["tool"])

	assert.Equal(t, "Structuring run complete", lines[2]["message"])
	assert.Equal(t, "debug", lines[2]["level"])
	assert.Equal(t, float64(2), lines[2]["pages"])
	assert.Equal(t, float64(7), lines[2]["run"])
}

func TestLogRunCompleteHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "info", Output: &buf})

	log.LogRunComplete(2, 0, time.Second)
	assert.Empty(t, buf.String())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().LogPageWarning(1, "images", errors.New("x"))
	})
}
