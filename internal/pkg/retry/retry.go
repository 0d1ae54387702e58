package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 5
	defaultMaxDelay = 5 * time.Second
	defaultDelay    = 500 * time.Millisecond
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS"`
	Delay    time.Duration `env:"DELAY"`
	MaxDelay time.Duration `env:"MAX_DELAY"`
	Timeout  time.Duration `env:"TIMEOUT"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
		Timeout:  30 * time.Second,
	}
}

// Do runs fn with the configured backoff until it succeeds, attempts run out
// or ctx is done. Timeout, when set, bounds the whole sequence.
func Do(ctx context.Context, rc RetryConfig, fn func(ctx context.Context) error, onRetry func(n uint, err error)) error {
	if rc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.Timeout)
		defer cancel()
	}

	opts := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}

	return retry.Do(func() error { return fn(ctx) }, opts...)
}
