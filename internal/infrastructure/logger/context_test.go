package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestWithContext_FromContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_MissingLoggerReturnsNop(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	// Safe to use
	logger.Info("no-op")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-42")
	enriched.Info("hello")

	assert.Equal(t, "req-42", GetRequestID(ctx))
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestWithSessionID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithSessionID(context.Background(), logger, "sess-7")
	enriched.Info("hello")

	assert.Equal(t, "sess-7", GetSessionID(ctx))
	assert.Equal(t, "sess-7", logs.All()[0].ContextMap()["session_id"])
}

func TestL_EnrichesFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx := WithContext(context.Background(), logger)
	ctx, _ = WithRequestID(ctx, FromContext(ctx), "req-99")

	L(ctx).Info("checkout step advanced")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-99", entries[0].ContextMap()["request_id"])
}

func TestWithTraceContext_NoSpanLeavesLoggerUnchanged(t *testing.T) {
	logger := zap.NewNop()
	assert.Equal(t, logger, WithTraceContext(context.Background(), logger))
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithLogger(context.Background(), logger).
		With(zap.String("step", "payment")).
		Info("rendered")

	assert.Equal(t, "payment", logs.All()[0].ContextMap()["step"])
}
