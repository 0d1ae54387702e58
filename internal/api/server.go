package api

import (
	"net/http"
	"time"

	chatapi "github.com/gabot/faq-backend/internal/api/chat"
	clientapi "github.com/gabot/faq-backend/internal/api/client"
	"github.com/gabot/faq-backend/internal/api/docs"
	faqapi "github.com/gabot/faq-backend/internal/api/faq"
	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers of the API.
type Handlers struct {
	FAQ    *faqapi.Handler
	Chat   *chatapi.Handler
	Client *clientapi.Handler
}

// RouterOptions holds the cross-cutting pieces of the router.
type RouterOptions struct {
	Sessions       *middleware.SessionManager
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy     bool
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer) // Recover from panics
	r.Use(chimiddleware.RequestID) // Add request ID
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logger(opts.Logger))             // Log requests
	r.Use(middleware.CORS(opts.AllowedOrigins))       // Handle CORS
	r.Use(chimiddleware.Timeout(opts.RequestTimeout)) // Default timeout
	r.Use(opts.Sessions.Authenticate)                 // Attach logged-in client

	// Health check endpoints
	health := func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, &entity.StatusResponse{Status: "healthy"})
	}
	r.Get("/health", health)
	r.Get("/healthz", health)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	chatapi.RegisterRoutes(r, h.Chat, opts.RateLimiter.Middleware)
	clientapi.RegisterRoutes(r, h.Client)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireClient)
		faqapi.RegisterRoutes(r, h.FAQ)
	})

	return r
}
