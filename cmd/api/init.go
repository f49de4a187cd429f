package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"imperilator/internal/calculator"
	"imperilator/internal/config"
	"imperilator/internal/observability"
)

// initTelemetry starts OTLP export of traces, metrics and logs when an
// endpoint is configured and registers the calculator's instruments. The
// returned function flushes and stops every provider that was started.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	if !cfg.TelemetryEnabled() {
		observability.Logger.Info("OTLP export disabled; set OTEL_EXPORTER_OTLP_ENDPOINT to enable")
		return func(context.Context) error { return nil }, calculator.InitMetrics()
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, start := range []func(context.Context, string) (func(context.Context) error, error){
		observability.InitTracing,
		observability.InitMetrics,
		observability.InitLogging,
	} {
		stop, err := start(ctx, cfg.ServiceName)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, stop)
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	observability.Logger.Info("OTLP export enabled", zap.String("endpoint", cfg.OTLPEndpoint))
	return shutdown, nil
}

// sessionOptions maps configuration onto calculator session options.
func sessionOptions(cfg config.Config) []calculator.Option {
	return []calculator.Option{
		calculator.WithHistorySize(cfg.HistorySize),
		calculator.WithDenominator(cfg.Denominator),
		calculator.WithTimeouts(cfg.ErrorModeTimeout, cfg.ErrorBannerTimeout),
	}
}
