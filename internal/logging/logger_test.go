package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{" Info ", slog.LevelInfo},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewWithWriter_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "cli", slog.LevelInfo)

	logger.Info("scenario loaded", "steps", 3)

	out := buf.String()
	assert.Contains(t, out, "component=cli")
	assert.Contains(t, out, "steps=3")
}

func TestNewWithWriter_RewritesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "tracker", slog.LevelInfo)

	logger.Error("open failed", "error", errors.New("no such library"))

	out := buf.String()
	assert.Contains(t, out, "err=")
	assert.NotContains(t, out, "error=")
}

func TestNewWithWriter_HonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "tracker", slog.LevelWarn)

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "emitted")
}
