package chat

import (
	"net/http"

	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes. POST /chat is public and rate limited;
// history and analytics belong to the logged-in client.
func RegisterRoutes(r chi.Router, h *Handler, rateLimit func(http.Handler) http.Handler) {
	r.With(rateLimit).Post("/chat", h.Chat)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireClient)
		r.Get("/chat/history", h.History)
		r.Delete("/chat/history", h.ClearHistory)
		r.Get("/analytics", h.Analytics)
	})
}
