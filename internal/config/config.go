package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gabot/faq-backend/internal/matching"
	pkgRetry "github.com/gabot/faq-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":8080"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	TrustProxy         bool          `env:"TRUST_PROXY" envDefault:"false"`

	// Database configuration
	DatabaseURL         string               `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBRetry             pkgRetry.RetryConfig `envPrefix:"DB_RETRY_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MatcherCfg   MatcherConfig   `envPrefix:"MATCHER_"`
	SessionCfg   SessionConfig   `envPrefix:"SESSION_"`
	RateLimitCfg RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	ChatCfg      ChatConfig      `envPrefix:"CHAT_"`
	AdminCfg     AdminConfig     `envPrefix:"ADMIN_"`
	ImportCfg    ImportConfig    `envPrefix:"IMPORT_"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// MatcherConfig tunes FAQ matching. NotUnderstood is also the marker analytics
// use to count unanswered turns, so changing it splits old and new history.
type MatcherConfig struct {
	Threshold       float64       `env:"THRESHOLD" envDefault:"0.30"`
	MaxVocabulary   int           `env:"MAX_VOCABULARY_SIZE" envDefault:"1000"`
	StopWords       string        `env:"STOP_WORDS" envDefault:"english"`
	NotUnderstood   string        `env:"UNANSWERED_SENTINEL" envDefault:"Maaf, saya belum mengerti apa yang dimaksud. Silakan coba pertanyaan lain atau hubungi admin."`
	NoData          string        `env:"NO_DATA_MESSAGE" envDefault:"Maaf, belum ada data FAQ untuk Anda."`
	ProcessingError string        `env:"PROCESSING_ERROR_MESSAGE" envDefault:"Maaf, terjadi kesalahan dalam memproses pertanyaan Anda."`
	IndexTTL        time.Duration `env:"INDEX_TTL" envDefault:"0s"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"0s"`
	WarmOnStart     bool          `env:"WARM_ON_START" envDefault:"true"`
}

// Messages returns the configured reply copy.
func (c MatcherConfig) Messages() matching.Messages {
	return matching.Messages{
		NoData:          c.NoData,
		NotUnderstood:   c.NotUnderstood,
		ProcessingError: c.ProcessingError,
	}
}

type SessionConfig struct {
	Secret   string        `env:"SECRET,notEmpty"`
	Name     string        `env:"NAME" envDefault:"faq_session"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"168h"`
	Secure   bool          `env:"SECURE" envDefault:"false"`
	SameSite string        `env:"SAME_SITE" envDefault:"lax"`
}

type RateLimitConfig struct {
	RequestsPerMinute int           `env:"REQUESTS_PER_MINUTE" envDefault:"60"`
	Burst             int           `env:"BURST" envDefault:"10"`
	IdleTTL           time.Duration `env:"IDLE_TTL" envDefault:"10m"`
}

type ChatConfig struct {
	DefaultClientID  int64 `env:"DEFAULT_CLIENT_ID" envDefault:"1"`
	MaxMessageLength int   `env:"MAX_MESSAGE_LENGTH" envDefault:"300"`
}

// AdminConfig bootstraps an approved admin account when both values are set.
type AdminConfig struct {
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

type ImportConfig struct {
	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"1048576"` // 1 MiB
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	ClientID           int64         `env:"CLIENT_ID" envDefault:"1"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int           `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{
		DBRetry: *pkgRetry.DefaultRetryConfig(),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate Matcher configuration
	if cfg.MatcherCfg.Threshold < 0 || cfg.MatcherCfg.Threshold > 1 {
		errors = append(errors, fmt.Sprintf("MATCHER_THRESHOLD must be between 0 and 1, got %g", cfg.MatcherCfg.Threshold))
	}

	if cfg.MatcherCfg.MaxVocabulary < 1 {
		errors = append(errors, fmt.Sprintf("MATCHER_MAX_VOCABULARY_SIZE must be at least 1, got %d", cfg.MatcherCfg.MaxVocabulary))
	}

	if _, err := matching.StopWords(cfg.MatcherCfg.StopWords); err != nil {
		errors = append(errors, fmt.Sprintf("MATCHER_STOP_WORDS: %v", err))
	}

	if strings.TrimSpace(cfg.MatcherCfg.NotUnderstood) == "" {
		errors = append(errors, "MATCHER_UNANSWERED_SENTINEL must not be empty")
	}

	if cfg.MatcherCfg.IndexTTL < 0 || cfg.MatcherCfg.Timeout < 0 {
		errors = append(errors, "MATCHER_INDEX_TTL and MATCHER_TIMEOUT must not be negative")
	}

	// Validate Session configuration
	if len(cfg.SessionCfg.Secret) < 32 {
		errors = append(errors, fmt.Sprintf("SESSION_SECRET must be at least 32 bytes, got %d", len(cfg.SessionCfg.Secret)))
	}

	switch strings.ToLower(cfg.SessionCfg.SameSite) {
	case "lax", "strict", "none":
	default:
		errors = append(errors, fmt.Sprintf("SESSION_SAME_SITE must be lax, strict or none, got %q", cfg.SessionCfg.SameSite))
	}

	// Validate rate limit and chat configuration
	if cfg.RateLimitCfg.RequestsPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_REQUESTS_PER_MINUTE must be positive, got %d", cfg.RateLimitCfg.RequestsPerMinute))
	}

	if cfg.RateLimitCfg.Burst < 1 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_BURST must be positive, got %d", cfg.RateLimitCfg.Burst))
	}

	if cfg.ChatCfg.MaxMessageLength < 1 {
		errors = append(errors, fmt.Sprintf("CHAT_MAX_MESSAGE_LENGTH must be positive, got %d", cfg.ChatCfg.MaxMessageLength))
	}

	if cfg.ImportCfg.MaxFileSize < 1 {
		errors = append(errors, fmt.Sprintf("IMPORT_MAX_FILE_SIZE must be positive, got %d", cfg.ImportCfg.MaxFileSize))
	}

	if (cfg.AdminCfg.Username == "") != (cfg.AdminCfg.Password == "") {
		errors = append(errors, "ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.Enabled() {
		if cfg.TelegramCfg.ClientID < 1 {
			errors = append(errors, fmt.Sprintf("TELEGRAM_CLIENT_ID must be positive, got %d", cfg.TelegramCfg.ClientID))
		}

		if cfg.TelegramCfg.MaxConcurrentUsers < 1 {
			errors = append(errors, fmt.Sprintf("TELEGRAM_MAX_CONCURRENT_USERS must be positive, got %d", cfg.TelegramCfg.MaxConcurrentUsers))
		}

		if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
			errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
		}

		if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
			errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
		}

		if cfg.TelegramCfg.ShutdownTimeout < time.Second || cfg.TelegramCfg.ShutdownTimeout > 5*time.Minute {
			errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1s and 5m, got %s", cfg.TelegramCfg.ShutdownTimeout))
		}
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
