package main

import (
	"context"
	"errors"

	"wrong-calculator/internal/calculator"
	"wrong-calculator/internal/config"
	"wrong-calculator/internal/observability"
)

// initTelemetry starts the OTLP exporters enabled in cfg and the calculator's
// metric instruments. Exported logs honour logLevel. The returned function flushes and stops them all.
func initTelemetry(ctx context.Context, cfg config.Telemetry, logLevel string) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Traces {
		stop, err := observability.InitTracing(ctx)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, stop)
	}

	if cfg.Metrics {
		stop, err := observability.InitMetrics(ctx)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, stop)
	}

	if cfg.Logs {
		stop, err := observability.InitLogging(ctx, logLevel)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, stop)
	}

	// Instruments bind to whichever meter provider is installed by now.
	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
