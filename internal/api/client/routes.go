package client

import (
	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers auth and admin routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(middleware.RequireClient).Get("/me", h.Me)
	})

	r.Route("/admin/clients", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.ListClients)

		r.Route("/{client_id}", func(r chi.Router) {
			r.Delete("/", h.DeleteClient)
			r.Post("/approve", h.ApproveClient)
			r.Post("/reject", h.RejectClient)
		})
	})
}
