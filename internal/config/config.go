// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting of the calculator service.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	ServiceName     string
	OTLPEndpoint    string
	ShutdownTimeout time.Duration

	HistorySize        int
	Denominator        int
	ErrorModeTimeout   time.Duration
	ErrorBannerTimeout time.Duration
	SessionTTL         time.Duration
}

// TelemetryEnabled reports whether traces, metrics and logs are exported
// over OTLP.
func (c Config) TelemetryEnabled() bool {
	return c.OTLPEndpoint != ""
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the configuration through lookup, which has the
// signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		HTTPAddr:        r.str("HTTP_ADDR", ":8080"),
		LogLevel:        r.str("LOG_LEVEL", "info"),
		ServiceName:     r.str("OTEL_SERVICE_NAME", "imperilator"),
		OTLPEndpoint:    r.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ShutdownTimeout: r.duration("SHUTDOWN_TIMEOUT", 5*time.Second),

		HistorySize:        r.integer("CALC_HISTORY_SIZE", 4),
		Denominator:        r.integer("CALC_DENOMINATOR", 16),
		ErrorModeTimeout:   r.duration("CALC_ERROR_MODE_TIMEOUT", 1500*time.Millisecond),
		ErrorBannerTimeout: r.duration("CALC_ERROR_BANNER_TIMEOUT", 3*time.Second),
		SessionTTL:         r.duration("CALC_SESSION_TTL", 30*time.Minute),
	}

	if cfg.HistorySize < 1 {
		r.fail("CALC_HISTORY_SIZE", fmt.Errorf("must be at least 1, got %d", cfg.HistorySize))
	}
	switch cfg.Denominator {
	case 8, 16, 32:
	default:
		r.fail("CALC_DENOMINATOR", fmt.Errorf("must be 8, 16 or 32, got %d", cfg.Denominator))
	}

	return cfg, errors.Join(r.errs...)
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) fail(key string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	if d < 0 {
		r.fail(key, fmt.Errorf("must not be negative, got %s", d))
		return def
	}
	return d
}
