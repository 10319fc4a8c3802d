package database

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/thenoetrevino/kanban/internal/config"
)

// Backoff describes an exponential retry schedule with jitter
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// BackoffFromConfig converts the retry section of the config
func BackoffFromConfig(cfg config.Retry) Backoff {
	return Backoff{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
	}
}

// Delay returns the wait before retry number attempt (0-based): the base
// delay doubled per attempt, capped at MaxDelay, plus up to half again as
// random jitter.
func (b Backoff) Delay(attempt int) time.Duration {
	delay := b.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if b.MaxDelay > 0 && delay >= b.MaxDelay {
			delay = b.MaxDelay
			break
		}
	}
	if b.MaxDelay > 0 && delay > b.MaxDelay {
		delay = b.MaxDelay
	}
	if half := int64(delay / 2); half > 0 {
		delay += time.Duration(rand.Int64N(half))
	}
	return delay
}

// Retry calls fn until it succeeds, the attempts run out, or ctx ends.
// It returns the last error from fn.
func Retry(ctx context.Context, b Backoff, logger *slog.Logger, fn func(ctx context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := b.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Debug("succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}
		lastErr = err

		// Don't sleep after the last attempt
		if attempt == attempts-1 {
			break
		}

		delay := b.Delay(attempt)
		logger.Debug("attempt failed, retrying",
			"attempt", attempt+1,
			"max_attempts", attempts,
			"retry_delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	logger.Warn("giving up after all attempts", "attempts", attempts, "error", lastErr)
	return lastErr
}
