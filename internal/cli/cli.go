package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/events"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
	db     *database.DB
	owned  bool // App and db were opened here and are closed by Close
}

type appKey struct{}

// WithApp binds an already built App to ctx. Commands executed with such a
// context use it instead of opening the configured database.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// NewCLI loads the config, opens the database and, when Redis is configured,
// connects the event publisher. A publisher that cannot connect is logged
// and skipped so commands keep working without notifications.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.Default()
	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithPublishRetries(cfg.Events.PublishRetries),
	}
	if cfg.Events.RedisURL != "" {
		pub, err := events.NewRedisPublisher(cfg.Events.RedisURL, cfg.Events.Channel)
		if err != nil {
			logger.Warn("event publishing disabled", "error", err)
		} else {
			opts = append(opts, app.WithEventPublisher(pub))
		}
	}

	return &CLI{
		App:    app.New(db, opts...),
		Config: cfg,
		db:     db,
		owned:  true,
	}, nil
}

// GetCLIFromContext returns a CLI around the App bound with WithApp, or a
// freshly initialised one when ctx carries none.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey{}).(*app.App); ok && a != nil {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		return &CLI{App: a, Config: cfg}, nil
	}
	return NewCLI(ctx)
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return errors.Join(c.App.Close(), c.db.Close())
}
