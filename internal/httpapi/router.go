// Package httpapi exposes the thin public HTTP surface: contact form and
// newsletter subscribe/confirm/unsubscribe.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the chi router for the public API.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", h.Contact)
		r.Post("/newsletter-subscribe", h.Subscribe)
		r.Get("/newsletter-confirm", h.Confirm)
		r.Post("/newsletter-confirm", h.Confirm)
		r.Get("/newsletter-unsubscribe", h.Unsubscribe)
		r.Post("/newsletter-unsubscribe", h.Unsubscribe)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
