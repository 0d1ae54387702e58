package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/gabot/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		r.sent = append(r.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func message(userID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "hi",
		Chat: &tgbotapi.Chat{ID: userID},
		From: &tgbotapi.User{ID: userID},
	}}
}

func TestOrigin(t *testing.T) {
	userID, chatID := Origin(message(9))
	assert.Equal(t, int64(9), userID)
	assert.Equal(t, int64(9), chatID)

	userID, chatID = Origin(tgbotapi.Update{})
	assert.Zero(t, userID)
	assert.Zero(t, chatID)
}

func TestRateLimiter_PerUserWithEscalatingWarnings(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(1, 2, zap.NewNop(), sender)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	rl.Handle(message(1), next)
	rl.Handle(message(1), next)
	rl.Handle(message(1), next)
	rl.Handle(message(1), next)
	assert.Equal(t, 2, handled)
	// one warning per interval
	assert.Equal(t, []string{render.MsgSlowDown}, sender.sent)

	rl.Handle(message(2), next)
	assert.Equal(t, 3, handled)

	now = now.Add(time.Minute + time.Second)
	rl.Handle(message(1), next)
	assert.Equal(t, 4, handled, "one token refills per minute")

	rl.Handle(message(1), next)
	assert.Equal(t, []string{render.MsgSlowDown, render.MsgSlowDown}, sender.sent,
		"a successful request resets the warning level")

	// updates without a sender pass through
	rl.Handle(tgbotapi.Update{}, next)
	assert.Equal(t, 5, handled)
}

func TestRecovery(t *testing.T) {
	sender := &recordingSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	assert.NotPanics(t, func() {
		m.Handle(message(3), func(tgbotapi.Update) { panic("boom") })
	})
	assert.Equal(t, []string{render.ErrGeneric}, sender.sent)

	m.Handle(message(3), func(tgbotapi.Update) {})
	assert.Len(t, sender.sent, 1)
}

func TestLoggingPassesThrough(t *testing.T) {
	called := false
	NewLoggingMiddleware(zap.NewNop()).Handle(message(4), func(tgbotapi.Update) { called = true })
	assert.True(t, called)
}
