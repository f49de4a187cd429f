package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the session API under /sessions and the stateless
// evaluator under /calculator.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Post("/tokens", h.SubmitToken)
			r.Post("/evaluate", h.Evaluate)
			r.Post("/backspace", h.Backspace)
			r.Post("/clear", h.Clear)
			r.Put("/denominator", h.SetDenominator)
			r.Get("/history", h.History)
		})
	})

	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", h.EvaluateScript)
	})
}
