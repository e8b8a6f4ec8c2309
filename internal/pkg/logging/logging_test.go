package logging_test

import (
	"testing"

	"eshop/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	t.Run("should add trace fields from the span context", func(t *testing.T) {
		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)
		ctx := trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

		logging.WithTrace(ctx, logger).Info("checkout completed")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	})

	t.Run("should leave the logger alone without a span", func(t *testing.T) {
		logging.WithTrace(t.Context(), logger).Info("no span")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.NotContains(t, entries[0].ContextMap(), "trace_id")
	})
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	logging.Component(zap.New(core), "checkout").Info("hello")

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "checkout", entries[0].ContextMap()["component"])
	assert.NotNil(t, logging.Component(nil, "checkout"))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := logging.New(env)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
