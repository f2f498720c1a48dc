package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRedaction(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	l.Info("provider ready", "provider", "anthropic", "api_key", "sk-123", "AuthToken", "abc", "model", "claude-haiku")
	l.With("client_secret", "s3cr3t").Warn("retrying")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "anthropic", fields["provider"])
	assert.Equal(t, redacted, fields["api_key"])
	assert.Equal(t, redacted, fields["AuthToken"])
	assert.Equal(t, "claude-haiku", fields["model"])

	assert.Equal(t, redacted, entries[1].ContextMap()["client_secret"])
}

func TestOddKeyValues(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)
	l.Debug("dangling", "exercise", "fib-1", "orphan")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "fib-1", fields["exercise"])
	assert.Equal(t, "(MISSING)", fields["orphan"])
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptenav.log")
	l, err := New(Config{File: path, Level: "warn"})
	require.NoError(t, err)

	l.Info("skipped")
	l.Warn("store write failed", "key", "stats", "err", "disk full")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "store write failed")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing happens", "token", "x")
	l.With("a", 1).Info("still nothing")
}
