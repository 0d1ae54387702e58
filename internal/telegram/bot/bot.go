package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/logger"
	"github.com/gabot/faq-backend/internal/telegram/middleware"
	"github.com/gabot/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SessionPrefix marks chat sessions that came in through Telegram.
const SessionPrefix = "tg-"

// ChatUsecase answers one user message for a tenant.
type ChatUsecase interface {
	Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error)
}

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	middleware.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot routes Telegram text messages to the FAQ matcher of a single tenant.
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	chat        ChatUsecase
	maxLength   int
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	slots       chan struct{}
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New authorizes against the Bot API and creates the bot.
func New(cfg *config.TelegramConfig, chatCfg config.ChatConfig, chat ChatUsecase, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
		zap.Int64("client_id", cfg.ClientID),
	)

	return NewWithAPI(api, cfg, chatCfg, chat, logger), nil
}

// NewWithAPI creates the bot on top of an already authorized API.
func NewWithAPI(api API, cfg *config.TelegramConfig, chatCfg config.ChatConfig, chat ChatUsecase, logger *zap.Logger) *Bot {
	slots := cfg.MaxConcurrentUsers
	if slots <= 0 {
		slots = 1
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		chat:        chat,
		maxLength:   chatCfg.MaxMessageLength,
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		slots:       make(chan struct{}, slots),
		stopChan:    make(chan struct{}),
	}
}

// Start begins long polling. It returns immediately; updates are processed
// until Stop is called or ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops polling and waits for in-flight updates up to ShutdownTimeout.
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(b.cfg.ShutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", b.cfg.ShutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	// in-flight answers must survive cancellation of the polling context
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				ctxzap.Info(ctx, "updates channel closed")
				return
			}
			if !b.acquire(ctx) {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				defer b.release()
				b.handleUpdateWithMiddleware(handlerCtx, u)
			}(update)
		}
	}
}

// acquire blocks until a handler slot frees up. Polling stalls while every
// slot is busy, which holds further updates on Telegram's side.
func (b *Bot) acquire(ctx context.Context) bool {
	select {
	case b.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	case <-b.stopChan:
		return false
	}
}

func (b *Bot) release() {
	<-b.slots
}

// handleUpdateWithMiddleware runs rate limit, logging and recovery, in that order.
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}

	ctx = logger.AddFields(ctx, zap.Int64("chat_id", message.Chat.ID))

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}
	b.handleMessage(ctx, message)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		b.reply(ctx, message.Chat.ID, render.MsgWelcome)
	case "help":
		b.reply(ctx, message.Chat.ID, render.MsgHelp)
	default:
		b.reply(ctx, message.Chat.ID, render.MsgUnknownCommand)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if message.Text == "" {
		b.reply(ctx, chatID, render.MsgTextOnly)
		return
	}

	resp, err := b.chat.Chat(ctx, &entity.ChatRequest{
		ClientID:  b.cfg.ClientID,
		SessionID: SessionID(chatID),
		Message:   message.Text,
	})
	if err != nil {
		ctxzap.Warn(ctx, "chat request failed", zap.Error(err))
		b.reply(ctx, chatID, render.ClassifyError(err, b.maxLength))
		return
	}

	b.reply(ctx, chatID, resp.Response)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		ctxzap.Error(ctx, "failed to send message", zap.Error(err))
	}
}

// SessionID is the chat session a Telegram chat maps to. All messages of one
// chat share a session so history groups them together.
func SessionID(chatID int64) string {
	return SessionPrefix + strconv.FormatInt(chatID, 10)
}
