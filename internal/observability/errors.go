package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"imperilator/internal/handlers"
)

// Failure describes a failed request for RecordError.
type Failure struct {
	// Operation names the handler, e.g. "submit".
	Operation string
	// Kind is the machine-readable error class returned to the client.
	Kind    string
	Message string
	Err     error
	Status  int
}

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error HTTP response.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, f Failure, w http.ResponseWriter) {
	span.RecordError(f.Err)
	span.SetStatus(codes.Error, f.Message)

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", f.Operation),
		attribute.String("kind", f.Kind),
	))

	fields := []zap.Field{
		zap.String("operation", f.Operation),
		zap.String("kind", f.Kind),
		zap.Int("status", f.Status),
		zap.Error(f.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	if f.Status >= http.StatusInternalServerError {
		logger.Error(f.Message, fields...)
	} else {
		logger.Warn(f.Message, fields...)
	}

	handlers.WriteError(w, f.Status, f.Message, f.Kind)
}
