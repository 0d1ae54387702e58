package telegram

import (
	"context"
	"fmt"

	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/telegram/bot"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot creates a bot that answers from the FAQ set of cfg.ClientID.
func NewBot(
	cfg *config.TelegramConfig,
	chatCfg config.ChatConfig,
	chat bot.ChatUsecase,
	logger *zap.Logger,
) (Bot, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	if cfg.ClientID <= 0 {
		return nil, fmt.Errorf("telegram client id must be positive, got %d", cfg.ClientID)
	}

	b, err := bot.New(cfg, chatCfg, chat, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")
	return b, nil
}
