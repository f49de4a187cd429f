package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging tees Logger into an OTLP log exporter. Records below the
// level Logger was built with are not exported, so debug keystroke logs
// stay local unless LOG_LEVEL asks for them.
func InitLogging(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	res, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	otelCore, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(provider)),
		Logger.Level(),
	)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("gating otlp log core: %w", err), provider.Shutdown(ctx))
	}

	Logger = zap.New(zapcore.NewTee(Logger.Core(), otelCore))

	return provider.Shutdown, nil
}
