package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket per client IP. Buckets of idle IPs expire.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute)),
		burst:    cfg.Burst,
		limiters: cache.New(cfg.IdleTTL, cfg.IdleTTL),
	}
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	var limiter *rate.Limiter
	if v, ok := rl.limiters.Get(ip); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	// sliding expiry: an active IP keeps its bucket
	rl.limiters.Set(ip, limiter, cache.DefaultExpiration)
	rl.mu.Unlock()

	return limiter.Allow()
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !rl.Allow(ip) {
			ctx := r.Context()
			ctxzap.Debug(ctx, "rate limit exceeded", zap.String("ip", ip))
			w.Header().Set("Retry-After", "60")
			response.Error(ctx, w, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP is the remote address host. Forwarding headers are only honoured
// when the router runs behind a trusted proxy, which rewrites RemoteAddr first.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
