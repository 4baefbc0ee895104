package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestScrubRedactsNotesAndHashesName(t *testing.T) {
	log, logs := NewObserved(zapcore.DebugLevel)

	log.Info("profile updated", "name", "Sarah", "notes", "felt kicks", "api_key", "abc", "week", 24)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "[REDACTED]", fields["notes"])
	require.Equal(t, "[REDACTED]", fields["api_key"])
	require.True(t, strings.HasPrefix(fields["name"].(string), "hash:"))
	require.EqualValues(t, 24, fields["week"])
}

func TestWithKeepsScrubbing(t *testing.T) {
	log, logs := NewObserved(zapcore.DebugLevel)

	log.With("service", "Test", "token", "secret-value").Warn("retrying")

	fields := logs.All()[0].ContextMap()
	require.Equal(t, "Test", fields["service"])
	require.Equal(t, "[REDACTED]", fields["token"])
}

func TestLargePayloadsLoggedAsSize(t *testing.T) {
	log, logs := NewObserved(zapcore.DebugLevel)

	log.Debug("image fetched", "bytes", make([]byte, 4096))

	require.Equal(t, "[4096 bytes]", logs.All()[0].ContextMap()["bytes"])
}

func TestSaltChangesDigest(t *testing.T) {
	plain, plainLogs := NewObserved(zapcore.DebugLevel)
	salted, saltedLogs := NewObserved(zapcore.DebugLevel, WithHashSalt("pepper"))

	plain.Info("x", "due_date", "2026-12-24")
	salted.Info("x", "due_date", "2026-12-24")

	a := plainLogs.All()[0].ContextMap()["due_date"]
	b := saltedLogs.All()[0].ContextMap()["due_date"]
	require.NotEqual(t, a, b)
}

func TestRedactionCanBeDisabled(t *testing.T) {
	log, logs := NewObserved(zapcore.DebugLevel, WithRedaction(false))

	log.Info("x", "notes", "visible")

	require.Equal(t, "visible", logs.All()[0].ContextMap()["notes"])
}
