package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	updates chan tgbotapi.Update
	stopped bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

type fakeChat struct {
	mu    sync.Mutex
	reqs  []entity.ChatRequest
	err   error
	panic bool
}

func (f *fakeChat) Chat(_ context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	if f.panic {
		panic("boom")
	}
	f.mu.Lock()
	f.reqs = append(f.reqs, *req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &entity.ChatResponse{Response: "answer to " + req.Message, SessionID: req.SessionID}, nil
}

func newTestBot(api *fakeAPI, chat ChatUsecase) *Bot {
	cfg := &config.TelegramConfig{
		ClientID:           5,
		MaxConcurrentUsers: 2,
		RateLimitPerMinute: 600,
		RateLimitBurst:     50,
		ShutdownTimeout:    time.Second,
	}
	return NewWithAPI(api, cfg, config.ChatConfig{MaxMessageLength: 300}, chat, zap.NewNop())
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID},
	}
	if len(text) > 0 && text[0] == '/' {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{UpdateID: 1, Message: msg}
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "tg-42", SessionID(42))
	assert.Equal(t, "tg--100123", SessionID(-100123))
}

func TestHandleUpdate_Commands(t *testing.T) {
	api := newFakeAPI()
	chat := &fakeChat{}
	b := newTestBot(api, chat)
	ctx := context.Background()

	b.handleUpdateWithMiddleware(ctx, textUpdate(42, "/start"))
	b.handleUpdateWithMiddleware(ctx, textUpdate(42, "/help"))
	b.handleUpdateWithMiddleware(ctx, textUpdate(42, "/cancel"))

	assert.Equal(t, []string{render.MsgWelcome, render.MsgHelp, render.MsgUnknownCommand}, api.texts())
	assert.Empty(t, chat.reqs)
}

func TestHandleUpdate_RoutesTextToTenant(t *testing.T) {
	api := newFakeAPI()
	chat := &fakeChat{}
	b := newTestBot(api, chat)

	b.handleUpdateWithMiddleware(context.Background(), textUpdate(42, "jam buka?"))

	require.Len(t, chat.reqs, 1)
	assert.Equal(t, entity.ChatRequest{ClientID: 5, SessionID: "tg-42", Message: "jam buka?"}, chat.reqs[0])
	assert.Equal(t, []string{"answer to jam buka?"}, api.texts())
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(42), api.sent[0].ChatID)
}

func TestHandleUpdate_NonText(t *testing.T) {
	api := newFakeAPI()
	chat := &fakeChat{}
	b := newTestBot(api, chat)

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 42},
		From:  &tgbotapi.User{ID: 42},
		Photo: []tgbotapi.PhotoSize{{FileID: "x"}},
	}}
	b.handleUpdateWithMiddleware(context.Background(), update)
	b.handleUpdateWithMiddleware(context.Background(), tgbotapi.Update{UpdateID: 2})

	assert.Equal(t, []string{render.MsgTextOnly}, api.texts())
	assert.Empty(t, chat.reqs)
}

func TestHandleUpdate_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"too long", fmt.Errorf("validate: %w", entity.ErrMessageTooLong), fmt.Sprintf(render.ErrTooLong, 300)},
		{"empty", entity.ErrEmptyMessage, render.ErrEmpty},
		{"timeout", context.DeadlineExceeded, render.ErrTimeout},
		{"tenant not approved", fmt.Errorf("%w: client 1 is pending", entity.ErrClientNotFound), render.ErrUnavailable},
		{"other", fmt.Errorf("boom"), render.ErrGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			b := newTestBot(api, &fakeChat{err: tt.err})
			b.handleUpdateWithMiddleware(context.Background(), textUpdate(42, "hi"))
			assert.Equal(t, []string{tt.want}, api.texts())
		})
	}
}

func TestHandleUpdate_RecoversPanic(t *testing.T) {
	api := newFakeAPI()
	b := newTestBot(api, &fakeChat{panic: true})

	assert.NotPanics(t, func() {
		b.handleUpdateWithMiddleware(context.Background(), textUpdate(42, "hi"))
	})
	assert.Equal(t, []string{render.ErrGeneric}, api.texts())
}

func TestStartStop(t *testing.T) {
	api := newFakeAPI()
	chat := &fakeChat{}
	b := newTestBot(api, chat)

	require.NoError(t, b.Start(context.Background()))
	api.updates <- textUpdate(1, "first")
	api.updates <- textUpdate(2, "second")

	assert.Eventually(t, func() bool { return len(api.texts()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"answer to first", "answer to second"}, api.texts())

	require.NoError(t, b.Stop())
	assert.True(t, api.stopped)
	// second stop is a no-op
	require.NoError(t, b.Stop())
}
