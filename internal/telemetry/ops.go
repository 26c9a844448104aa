package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	opsOnce    sync.Once
	opCounter  metric.Int64Counter
	opDuration metric.Float64Histogram
)

func opInstruments() (metric.Int64Counter, metric.Float64Histogram) {
	opsOnce.Do(func() {
		meter := Meter("")
		opCounter, _ = meter.Int64Counter("trellis.operations",
			metric.WithDescription("Workflow operations executed"))
		opDuration, _ = meter.Float64Histogram("trellis.operation.duration",
			metric.WithDescription("Operation duration in milliseconds"),
			metric.WithUnit("ms"))
	})
	return opCounter, opDuration
}

// RecordOp records one workflow operation with its outcome and duration.
// No-op cost only when telemetry is disabled (no-op meter provider).
func RecordOp(ctx context.Context, method string, err error, elapsed time.Duration) {
	counter, duration := opInstruments()
	status := "success"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", status),
	)
	counter.Add(ctx, 1, attrs)
	duration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}
