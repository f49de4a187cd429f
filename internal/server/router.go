package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"imperilator/internal/calculator"
	"imperilator/internal/handlers"
	"imperilator/internal/observability"
)

// NewRouter assembles the HTTP API: calculator routes, the health check and
// the Prometheus scrape endpoint served by metrics.
func NewRouter(calc *calculator.Handler, metrics http.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", metrics)

	calculator.RegisterRoutes(r, calc)

	return r
}
