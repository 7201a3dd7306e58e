package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/ridewell/import-service/internal/types"
)

// TestInitDisabled tests that disabled telemetry still yields usable
// providers and a shutdown func, so instrumented code paths work unchanged
func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.IsType(t, tracenoop.NewTracerProvider(), otel.GetTracerProvider())
	assert.IsType(t, metricnoop.NewMeterProvider(), otel.GetMeterProvider())

	// Recording against the noop meter must not panic
	RecordBatch(context.Background(), types.ImportAuditReport{
		Kind:     types.KindReservations,
		Accepted: 2,
		Skipped:  1,
	}, 50*time.Millisecond)

	assert.NoError(t, shutdown(context.Background()))
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Run("disabled without endpoint", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
		t.Setenv("OTEL_SERVICE_NAME", "")

		cfg := GetConfigFromEnv()
		assert.False(t, cfg.Enabled)
		assert.Equal(t, "opentelemetry-collector:4317", cfg.Endpoint)
		assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	})

	t.Run("enabled with endpoint", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector.internal:4317")
		t.Setenv("OTEL_SERVICE_NAME", "import-service-staging")

		cfg := GetConfigFromEnv()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, "collector.internal:4317", cfg.Endpoint)
		assert.Equal(t, "import-service-staging", cfg.ServiceName)
	})
}
