package faq

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers FAQ routes. The caller must require a logged-in client.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/faqs", func(r chi.Router) {
		r.Get("/", h.ListFAQs)
		r.Post("/", h.CreateFAQ)
		r.Post("/bulk-delete", h.BulkDeleteFAQs)
		r.Post("/import", h.ImportFAQs)
		r.Get("/export", h.ExportFAQs)

		r.Route("/{faq_id}", func(r chi.Router) {
			r.Get("/", h.GetFAQ)
			r.Put("/", h.UpdateFAQ)
			r.Delete("/", h.DeleteFAQ)
		})
	})
}
