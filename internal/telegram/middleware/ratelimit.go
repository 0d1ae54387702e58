package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gabot/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	warningInterval = 30 * time.Second
	inactiveAfter   = time.Hour
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	mu            sync.Mutex
	limiter       *rate.Limiter
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware applies a token bucket per Telegram user. Inactive
// users expire from the cache after an hour.
type RateLimiterMiddleware struct {
	mu     sync.Mutex
	users  *cache.Cache
	limit  rate.Limit
	burst  int
	logger *zap.Logger
	sender Sender
	now    func() time.Time
}

func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	sender Sender,
) *RateLimiterMiddleware {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if burstSize <= 0 {
		burstSize = 1
	}
	return &RateLimiterMiddleware{
		users:  cache.New(inactiveAfter, 10*time.Minute),
		limit:  rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:  burstSize,
		logger: logger,
		sender: sender,
		now:    time.Now,
	}
}

func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID := Origin(update)
	if userID == 0 {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) limitFor(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	var limit *userLimit
	if v, ok := rl.users.Get(key); ok {
		limit = v.(*userLimit)
	} else {
		limit = &userLimit{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	}
	// refresh expiry on every request
	rl.users.SetDefault(key, limit)
	return limit
}

func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.limitFor(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()
	if limit.limiter.AllowN(now, 1) {
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}
	return false
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	msg := tgbotapi.NewMessage(chatID, render.RateLimitWarning(warningCount))
	if _, err := rl.sender.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
