package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"imperilator/internal/calculator"
	"imperilator/internal/config"
	"imperilator/internal/observability"
	"imperilator/internal/server"
)

func main() {

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("initialising telemetry", zap.Error(err))
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	// Sessions
	store := calculator.NewStore(observability.Logger, cfg.SessionTTL, sessionOptions(cfg)...)
	if cfg.SessionTTL > 0 {
		go store.Run(ctx, sweepInterval(cfg.SessionTTL))
	}

	registry := observability.NewRegistry()
	if err := calculator.RegisterCollectors(registry, store); err != nil {
		observability.Logger.Fatal("registering collectors", zap.Error(err))
	}

	// Router
	router := server.NewRouter(calculator.NewHandler(store), observability.PrometheusHandler(registry))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, srv, cfg.ShutdownTimeout)
}

func waitForShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {

	<-ctx.Done()

	observability.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
}

// sweepInterval checks for idle sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}
