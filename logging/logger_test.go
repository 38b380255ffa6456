package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Zap().Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(Config{Level: "WARN", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Zap().Core().Enabled(zapcore.InfoLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestLoggerAddsRequestID(t *testing.T) {
	t.Parallel()

	logger := NewTestLogger()
	ctx := WithRequestID(context.Background(), "req-1")

	logger.Info(ctx, "decision loaded", zap.String("decision.id", "促轉司字第1號_json"))

	logger.AssertLogged(t, zapcore.InfoLevel, "decision loaded")
	logger.AssertField(t, "decision loaded", "request.id", "req-1")
	logger.AssertField(t, "decision loaded", "decision.id", "促轉司字第1號_json")
}

func TestLoggerWithoutRequestID(t *testing.T) {
	t.Parallel()

	logger := NewTestLogger()
	logger.Warn(context.Background(), "feed reload skipped")

	entries := logger.FilterMessage("feed reload").All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Context)
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", RequestIDFromContext(WithRequestID(context.Background(), "abc")))
}

func TestLoggerWith(t *testing.T) {
	t.Parallel()

	logger := NewTestLogger()
	logger.With(zap.String("component", "archive")).Error(context.Background(), "load failed")

	logger.AssertLogged(t, zapcore.ErrorLevel, "load failed")
	logger.AssertField(t, "load failed", "component", "archive")
}
