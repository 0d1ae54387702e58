package builder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gabot/faq-backend/internal/api"
	chatapi "github.com/gabot/faq-backend/internal/api/chat"
	clientapi "github.com/gabot/faq-backend/internal/api/client"
	faqapi "github.com/gabot/faq-backend/internal/api/faq"
	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/matching"
	"github.com/gabot/faq-backend/internal/pkg/formatter"
	"github.com/gabot/faq-backend/internal/pkg/validator"
	"github.com/gabot/faq-backend/internal/repository"
	"github.com/gabot/faq-backend/internal/telegram"
	"github.com/gabot/faq-backend/internal/usecase/chat"
	"github.com/gabot/faq-backend/internal/usecase/client"
	"github.com/gabot/faq-backend/internal/usecase/faq"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core holds what both binaries share: storage, the matcher and use cases.
type core struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	indexes   *matching.IndexCache
	validator *validator.Validator
	faqUC     *faq.FAQUsecase
	chatUC    *chat.ChatUsecase
	clientUC  *client.ClientUsecase
}

func (c *core) close() {
	if c.indexes != nil {
		c.indexes.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}

func buildCore(ctx context.Context, name string) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building "+name,
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	c := &core{cfg: cfg, logger: logger, db: db}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		c.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	faqRepo := repository.NewFAQPostgres(db)
	clientRepo := repository.NewClientPostgres(db)
	historyRepo := repository.NewChatHistoryPostgres(db)
	logger.Info("Repositories initialized")

	stopWords, err := matching.StopWords(cfg.MatcherCfg.StopWords)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("matcher stop words: %w", err)
	}
	c.indexes = matching.NewIndexCache(
		faqRepo,
		matching.NewBuilder(matching.Vectorizer{
			MaxFeatures: cfg.MatcherCfg.MaxVocabulary,
			StopWords:   stopWords,
		}),
		cfg.MatcherCfg.IndexTTL,
	)
	matcher := matching.NewMatcher(c.indexes, matching.Options{
		Threshold: cfg.MatcherCfg.Threshold,
		Timeout:   cfg.MatcherCfg.Timeout,
		Messages:  cfg.MatcherCfg.Messages(),
	})
	logger.Info("Matcher initialized",
		zap.Float64("threshold", cfg.MatcherCfg.Threshold),
		zap.String("stop_words", cfg.MatcherCfg.StopWords),
		zap.Int("max_vocabulary", cfg.MatcherCfg.MaxVocabulary),
	)

	c.validator = validator.New(cfg.ChatCfg, cfg.ImportCfg)

	c.faqUC = faq.NewUsecase(faqRepo, c.indexes, c.validator, formatter.NewFactory(), logger)
	c.chatUC = chat.NewUsecase(matcher, clientRepo, historyRepo, faqRepo, c.validator, logger)
	c.clientUC = client.NewUsecase(clientRepo, c.indexes, c.validator, logger)
	logger.Info("Use cases initialized")

	if cfg.AdminCfg.Username != "" {
		admin, err := c.clientUC.EnsureAdmin(ctx, cfg.AdminCfg.Username, cfg.AdminCfg.Password)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("ensure admin: %w", err)
		}
		logger.Info("Admin account ready", zap.Int64("client_id", admin.ID), zap.String("username", admin.Username))
	}

	return c, nil
}

// warm pre-builds indexes for the given tenants. Failures are logged only;
// the cache builds lazily on first query anyway.
func (c *core) warm(ctx context.Context, ids []int64) {
	if !c.cfg.MatcherCfg.WarmOnStart {
		return
	}
	if err := c.indexes.Warm(ctx, ids); err != nil {
		c.logger.Warn("index warm-up incomplete", zap.Error(err))
		return
	}
	c.logger.Info("Indexes warmed", zap.Int("tenants", c.indexes.Len()))
}

func Build() (*App, error) {
	ctx := context.Background()

	c, err := buildCore(ctx, "application")
	if err != nil {
		return nil, err
	}
	cfg, logger := c.cfg, c.logger

	ids, err := c.clientUC.ListApprovedIDs(ctx)
	if err != nil {
		logger.Warn("list approved clients for warm-up", zap.Error(err))
	} else {
		c.warm(ctx, ids)
	}

	sessions := middleware.NewSessionManager(cfg.SessionCfg, c.clientUC)
	handlers := api.Handlers{
		FAQ:    faqapi.NewHandler(c.faqUC, c.validator),
		Chat:   chatapi.NewHandler(c.chatUC, cfg.ChatCfg),
		Client: clientapi.NewHandler(c.clientUC, sessions),
	}
	logger.Info("API handlers initialized")

	router := api.SetupRouter(handlers, api.RouterOptions{
		Sessions:       sessions,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitCfg),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:  server,
		db:      c.db,
		indexes: c.indexes,
		logger:  logger,
	}, nil
}

// BuildTelegramBot creates the Telegram channel. The returned cleanup releases
// the database pool and index cache once the bot has stopped.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	c, err := buildCore(ctx, "Telegram bot")
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := &c.cfg.TelegramCfg

	c.warm(ctx, []int64{cfg.ClientID})

	bot, err := telegram.NewBot(cfg, c.cfg.ChatCfg, c.chatUC, c.logger)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully",
		zap.String("environment", c.cfg.Environment),
		zap.Int64("client_id", cfg.ClientID),
	)

	return bot, c.logger, c.close, nil
}
