package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCron(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Cron(zap.New(core))

	l.Info("schedule", "entry", 1)
	l.Error(errors.New("panic in job"), "job failed", "entry", 1)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "schedule", entries[0].Message)

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "panic in job", entries[1].ContextMap()["error"])
}
