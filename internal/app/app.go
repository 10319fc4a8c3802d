package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	boardservice "github.com/thenoetrevino/kanban/internal/services/board"
	cardservice "github.com/thenoetrevino/kanban/internal/services/card"
	listservice "github.com/thenoetrevino/kanban/internal/services/cardlist"
	"github.com/thenoetrevino/kanban/internal/services/permission"
	"github.com/thenoetrevino/kanban/internal/types"
)

const defaultPublishRetries = 3

// App holds all application services and provides dependency injection.
// Its exported operations are the gated entry points: each checks the
// actor's role, runs the service calls in one unit of work, and publishes a
// change event once that unit has committed.
type App struct {
	db        *database.DB
	repo      *database.Repository
	gate      *permission.Gate
	publisher events.Publisher
	retries   int
	logger    *slog.Logger

	// Service layer (business logic, ungated)
	BoardService      boardservice.Service
	ListService       listservice.Service
	CardService       cardservice.Service
	PermissionService permission.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *database.DB, opts ...Option) *App {
	cfg := &appConfig{
		publishRetries: defaultPublishRetries,
		logger:         db.Logger(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	repo := database.NewRepository(db)
	gate := permission.NewGate(repo.Permissions, cfg.logger)

	return &App{
		db:                db,
		repo:              repo,
		gate:              gate,
		publisher:         cfg.publisher,
		retries:           cfg.publishRetries,
		logger:            cfg.logger,
		BoardService:      boardservice.NewService(db, repo),
		ListService:       listservice.NewService(db, repo),
		CardService:       cardservice.NewService(db, repo, cardservice.WithClock(cfg.now)),
		PermissionService: permission.NewService(db, repo.Permissions, gate),
	}
}

// DB returns the underlying database
func (a *App) DB() *database.DB {
	return a.db
}

// Gate returns the permission gate used by every operation
func (a *App) Gate() *permission.Gate {
	return a.gate
}

// Close releases the event publisher. The database is owned by the caller.
func (a *App) Close() error {
	if a.publisher == nil {
		return nil
	}
	return a.publisher.Close()
}

// run executes fn in a unit of work. A non-nil event returned by fn is
// published after the outermost commit; rolled back work publishes nothing.
func (a *App) run(ctx context.Context, fn func(ctx context.Context) (*events.Event, error)) error {
	return a.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		ev, err := fn(ctx)
		if err != nil {
			return err
		}
		if ev != nil && a.publisher != nil {
			event := *ev
			a.db.Unit(ctx).AfterCommit(func() { a.publish(ctx, event) })
		}
		return nil
	})
}

func (a *App) publish(ctx context.Context, event events.Event) {
	// The change is already committed; a cancelled request must not drop it
	ctx = context.WithoutCancel(ctx)
	if err := events.PublishWithRetry(ctx, a.publisher, event, a.retries); err != nil {
		a.logger.Error("failed to publish event", "type", event.Type, "board_id", event.BoardID, "error", err)
	}
}

func (a *App) require(ctx context.Context, actor identity.Actor, board types.BoardID, role models.Role, op string) error {
	_, err := a.gate.Require(ctx, actor, board, role, op)
	return err
}

func newEvent(t events.EventType, actor identity.Actor, board, entity, scope int64) *events.Event {
	return &events.Event{
		Type:     t,
		BoardID:  board,
		EntityID: entity,
		ScopeID:  scope,
		ActorID:  actor.UserID.Int64(),
	}
}
