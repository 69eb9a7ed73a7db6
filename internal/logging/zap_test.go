package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedZap(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)

	return NewZap(zap.New(core).Sugar()), logs
}

func TestZapLogger_Levels(t *testing.T) {
	logger, logs := newObservedZap(zapcore.DebugLevel)

	logger.Debug("lookup", "key", "user:42")
	logger.Info("destination added", "id", "node-a", "vnodes", 5)
	logger.Warn("empty destination id skipped")
	logger.Error("sync failed", "error", "timeout")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "lookup", entries[0].Message)
	require.Equal(t, "user:42", entries[0].ContextMap()["key"])

	require.Equal(t, zapcore.InfoLevel, entries[1].Level)
	require.Equal(t, "node-a", entries[1].ContextMap()["id"])
	require.EqualValues(t, 5, entries[1].ContextMap()["vnodes"])

	require.Equal(t, zapcore.WarnLevel, entries[2].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	logger, logs := newObservedZap(zapcore.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, 1, logs.FilterMessage("shown").Len())
}

func TestZapLogger_Sync(t *testing.T) {
	logger, _ := newObservedZap(zapcore.InfoLevel)

	require.NoError(t, logger.Sync())
}

func TestZapLogger_With(t *testing.T) {
	logger, logs := newObservedZap(zapcore.InfoLevel)

	logger.With("router", "cache").Info("destination added", "id", "node-a")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "cache", fields["router"])
	require.Equal(t, "node-a", fields["id"])
}
