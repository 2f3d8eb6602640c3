package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging ships log records at or above level to the OTLP endpoint,
// alongside the stdout logger installed by InitLogger.
func InitLogging(ctx context.Context, level string) (func(context.Context) error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName()),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	exportCore, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider)),
		lvl,
	)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	Logger = zap.New(zapcore.NewTee(Logger.Core(), exportCore))

	return provider.Shutdown, nil
}
