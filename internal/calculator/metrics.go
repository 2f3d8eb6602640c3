package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments. They record nothing until InitMetrics runs.
var (
	eventsCounter      metric.Int64Counter     = noop.Int64Counter{}
	corruptionsCounter metric.Int64Counter     = noop.Int64Counter{}
	precisionHistogram metric.Int64Histogram   = noop.Int64Histogram{}
	opsHistogram       metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter       metric.Int64Counter     = noop.Int64Counter{}
	resultGauge        metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	eventsCounter, err = meter.Int64Counter("calculator.events.total",
		metric.WithDescription("Key presses applied to calculator sessions"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating events counter: %w", err)
	}

	corruptionsCounter, err = meter.Int64Counter("calculator.corruptions.total",
		metric.WithDescription("Completed operations, by noise strategy"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating corruptions counter: %w", err)
	}

	precisionHistogram, err = meter.Int64Histogram("calculator.corruption.precision",
		metric.WithDescription("Fractional digits kept in corrupted results"),
		metric.WithUnit("{digit}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 7, 8),
	)
	if err != nil {
		return fmt.Errorf("creating precision histogram: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The value shown by the last completed operation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
