package calculator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"imperilator/internal/measure"
)

// Metric instruments. They are no-ops until InitMetrics runs.
var (
	keystrokeCounter   metric.Int64Counter     = noop.Int64Counter{}
	errorCounter       metric.Int64Counter     = noop.Int64Counter{}
	evaluationCounter  metric.Int64Counter     = noop.Int64Counter{}
	evaluationDuration metric.Float64Histogram = noop.Float64Histogram{}
	resultGauge        metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers the calculator's OTel instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keystrokeCounter, err = meter.Int64Counter("calculator.keystrokes.total",
		metric.WithDescription("Keystrokes submitted to calculator sessions"),
		metric.WithUnit("{keystroke}"),
	)
	if err != nil {
		return fmt.Errorf("creating keystroke counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	evaluationCounter, err = meter.Int64Counter("calculator.evaluations.total",
		metric.WithDescription("Successful expression evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation counter: %w", err)
	}

	evaluationDuration, err = meter.Float64Histogram("calculator.evaluation.duration",
		metric.WithDescription("Duration of expression evaluations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation histogram: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("Magnitude of the last evaluated result in inches, square inches, cubic inches or units"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

func recordKeystroke(ctx context.Context, pad measure.Pad, accepted bool) {
	keystrokeCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pad", string(pad)),
		attribute.Bool("accepted", accepted),
	))
}

func recordEvaluation(ctx context.Context, result measure.MathToken, elapsedMS float64) {
	attrs := metric.WithAttributes(attribute.String("kind", string(result.Kind())))
	evaluationCounter.Add(ctx, 1, attrs)
	evaluationDuration.Record(ctx, elapsedMS, attrs)
	if v, ok := magnitude(result); ok {
		resultGauge.Record(ctx, v, attrs)
	}
}

// magnitude returns the numeric value of a result token in its base unit.
func magnitude(t measure.MathToken) (float64, bool) {
	switch v := t.(type) {
	case measure.Length:
		return v.TotalInches, true
	case measure.Area:
		return v.TotalSquareInches, true
	case measure.Volume:
		return v.TotalCubicInches, true
	case measure.ScalarSolution:
		f, err := strconv.ParseFloat(v.Value, 64)
		return f, err == nil
	}
	return 0, false
}

// RegisterCollectors exposes store gauges on reg.
func RegisterCollectors(reg prometheus.Registerer, store *Store) error {
	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calculator",
		Name:      "active_sessions",
		Help:      "Number of calculator sessions currently held in memory.",
	}, func() float64 { return float64(store.Len()) })

	if err := reg.Register(active); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return fmt.Errorf("registering active sessions gauge: %w", err)
	}
	return nil
}
