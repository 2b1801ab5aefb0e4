package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndLog(t *testing.T) {
	Init("development")
	require.NotNil(t, GetLogger())

	// Smoke test: logging must not panic with or without context fields.
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	Info(ctx, "info message")
	Warn(ctx, "warn message")
	Debug(ctx, "debug message")
	Error(ctx, "error message")
	Info(context.Background(), "no request id")
}

func TestWithContextNil(t *testing.T) {
	Init("development")
	assert.Equal(t, GetLogger(), WithContext(nil))
}

func TestWithContextExtractsRequestID(t *testing.T) {
	Init("development")
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	enriched := WithContext(ctx)
	assert.NotNil(t, enriched)
	// Different logger instance when fields were added.
	assert.NotEqual(t, GetLogger(), enriched)
}
