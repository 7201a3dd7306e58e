package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ridewell/import-service/internal/types"
)

var (
	metricsOnce   sync.Once
	rowsCounter   metric.Int64Counter
	batchDuration metric.Float64Histogram
)

// instruments lazily creates the pipeline instruments against whatever meter
// provider is installed, so metrics are noops until Init enables telemetry
func instruments() {
	metricsOnce.Do(func() {
		meter := otel.Meter("import-service/pipeline")

		rowsCounter, _ = meter.Int64Counter("import_rows_total",
			metric.WithDescription("Rows processed, partitioned by import kind and outcome"))
		batchDuration, _ = meter.Float64Histogram("import_batch_duration_seconds",
			metric.WithDescription("Wall-clock duration of one batch run"))
	})
}

// RecordBatch records the outcome counts and duration of one batch run
func RecordBatch(ctx context.Context, rep types.ImportAuditReport, elapsed time.Duration) {
	instruments()

	kind := attribute.String("kind", string(rep.Kind))
	record := func(outcome types.RowOutcome, n int) {
		if n > 0 {
			rowsCounter.Add(ctx, int64(n), metric.WithAttributes(kind,
				attribute.String("outcome", string(outcome))))
		}
	}
	record(types.OutcomeAccepted, rep.Accepted)
	record(types.OutcomeCorrected, rep.Corrected)
	record(types.OutcomeSkipped, rep.Skipped)
	record(types.OutcomeRejected, rep.Rejected)

	batchDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(kind))
}
