package tracing_test

import (
	"testing"

	"eshop/internal/pkg/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("should be a no-op without an endpoint", func(t *testing.T) {
		shutdown, err := tracing.Setup(t.Context(), tracing.Config{})
		require.NoError(t, err)
		require.NotNil(t, shutdown)
		assert.NoError(t, shutdown(t.Context()))
	})

	t.Run("should install an exporter for an endpoint", func(t *testing.T) {
		shutdown, err := tracing.Setup(t.Context(), tracing.Config{
			Endpoint:       "localhost:4318",
			Insecure:       true,
			ServiceVersion: "test",
		})
		require.NoError(t, err)
		// Nothing was recorded, so shutdown has nothing to flush.
		assert.NoError(t, shutdown(t.Context()))
	})
}
