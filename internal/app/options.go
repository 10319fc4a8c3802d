package app

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/kanban/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	publisher      events.Publisher
	publishRetries int
	logger         *slog.Logger
	now            func() time.Time
}

// WithEventPublisher sets the publisher that receives change events after
// each committed mutation
func WithEventPublisher(p events.Publisher) Option {
	return func(cfg *appConfig) {
		cfg.publisher = p
	}
}

// WithPublishRetries sets how many attempts are made per event
func WithPublishRetries(n int) Option {
	return func(cfg *appConfig) {
		cfg.publishRetries = n
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithClock sets the clock used for card move timestamps
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) {
		cfg.now = now
	}
}
