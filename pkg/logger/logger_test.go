package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// No t.Parallel here: these tests swap the package-level singleton.

func TestSetCapturesOutput(t *testing.T) {
	prev := Get()
	defer Set(prev)

	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Infow("captured registry snapshot", "path", "/tmp/claude_desktop_config-20260501T120000.000000000.json.bak")
	Debugf("no registry file at %s, skipping snapshot", "/tmp/missing.json")
	Warnw("failed to release registry lock", "path", "/tmp/claude_desktop_config.json.lock")

	out := buf.String()
	assert.Contains(t, out, "captured registry snapshot")
	assert.Contains(t, out, "claude_desktop_config-20260501T120000.000000000.json.bak")
	assert.Contains(t, out, "skipping snapshot")
	assert.Contains(t, out, "failed to release registry lock")
}

func TestGetReturnsInstalledLogger(t *testing.T) {
	prev := Get()
	defer Set(prev)

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	Set(l)
	assert.Same(t, l, Get())
}
