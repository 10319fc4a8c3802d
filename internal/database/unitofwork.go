package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/thenoetrevino/kanban/internal/models"
)

var (
	// ErrNoTransaction is returned by Commit and Rollback outside Begin
	ErrNoTransaction = models.NewError(models.KindTransaction, "no active transaction")

	// ErrNestedRollback is returned by the outermost Commit when an inner
	// level rolled back. The whole transaction is rolled back instead.
	ErrNestedRollback = models.NewError(models.KindTransaction, "transaction rolled back: a nested unit failed")
)

// UnitOfWork is one logical transaction. Begin may be called again while a
// transaction is open; nested levels become savepoints. A rollback at any
// level marks the unit so the outermost commit rolls back too.
//
// A UnitOfWork belongs to a single request and is not safe for concurrent use.
type UnitOfWork struct {
	db       *DB
	id       uuid.UUID
	tx       *sql.Tx
	depth    int
	poisoned bool
	hooks    []func()
	logger   *slog.Logger
}

type unitKey struct{}

// NewUnit creates an idle unit of work
func (d *DB) NewUnit() *UnitOfWork {
	id := uuid.New()
	return &UnitOfWork{
		db:     d,
		id:     id,
		logger: d.logger.With("unit", id.String()),
	}
}

// Unit returns the unit bound to ctx, or a new one. Services call this so a
// nested service call joins the caller's transaction as a savepoint.
func (d *DB) Unit(ctx context.Context) *UnitOfWork {
	if u := unitFrom(ctx); u != nil && u.db == d {
		return u
	}
	return d.NewUnit()
}

// WithUnit binds u to ctx
func WithUnit(ctx context.Context, u *UnitOfWork) context.Context {
	return context.WithValue(ctx, unitKey{}, u)
}

func unitFrom(ctx context.Context) *UnitOfWork {
	u, _ := ctx.Value(unitKey{}).(*UnitOfWork)
	return u
}

// ID is the correlation id attached to the unit's log records
func (u *UnitOfWork) ID() string { return u.id.String() }

// Depth is the current nesting level, 0 when idle
func (u *UnitOfWork) Depth() int { return u.depth }

// Active reports whether a transaction is open
func (u *UnitOfWork) Active() bool { return u.depth > 0 }

// savepointName is unique per process and nesting level
func savepointName(level int) string {
	return fmt.Sprintf("sp_%d_%d", os.Getpid(), level)
}

// Begin opens the transaction, or a savepoint when one is already open.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.depth == 0 {
		tx, err := u.db.sql.BeginTx(ctx, u.db.txOpts)
		if err != nil {
			return models.Wrap(models.KindTransaction, "failed to begin transaction", err)
		}
		u.tx = tx
		u.poisoned = false
		u.hooks = nil
		u.depth = 1
		u.logger.Debug("transaction started")
		return nil
	}

	name := savepointName(u.depth)
	if _, err := u.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return models.Wrap(models.KindTransaction, "failed to create savepoint", err)
	}
	u.depth++
	u.logger.Debug("savepoint created", "savepoint", name, "depth", u.depth)
	return nil
}

// Commit ends the current level. The outermost level commits, or rolls back
// and returns ErrNestedRollback if any inner level rolled back.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.depth == 0 {
		return ErrNoTransaction
	}
	u.depth--

	if u.depth > 0 {
		name := savepointName(u.depth)
		if _, err := u.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
			u.poisoned = true
			return models.Wrap(models.KindTransaction, "failed to release savepoint", err)
		}
		return nil
	}

	tx := u.tx
	u.tx = nil
	hooks := u.hooks
	u.hooks = nil
	if u.poisoned {
		u.poisoned = false
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			u.logger.Error("failed to rollback transaction", "error", err)
		}
		u.logger.Warn("commit turned into rollback after nested failure")
		return ErrNestedRollback
	}

	if err := tx.Commit(); err != nil {
		return models.Wrap(models.KindTransaction, "failed to commit transaction", err)
	}
	u.logger.Debug("transaction committed")
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// Rollback ends the current level, discarding its writes. Nested levels roll
// back to their savepoint and poison the unit.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.depth == 0 {
		return ErrNoTransaction
	}
	u.depth--

	// Rollback must run even when the request context is already done
	ctx = context.WithoutCancel(ctx)

	if u.depth > 0 {
		u.poisoned = true
		name := savepointName(u.depth)
		if _, err := u.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
			return models.Wrap(models.KindTransaction, "failed to rollback to savepoint", err)
		}
		if _, err := u.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
			return models.Wrap(models.KindTransaction, "failed to release savepoint", err)
		}
		u.logger.Debug("rolled back to savepoint", "savepoint", name, "depth", u.depth)
		return nil
	}

	tx := u.tx
	u.tx = nil
	u.poisoned = false
	u.hooks = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return models.Wrap(models.KindTransaction, "failed to rollback transaction", err)
	}
	u.logger.Debug("transaction rolled back")
	return nil
}

// AfterCommit registers fn to run after the outermost level commits. It is
// discarded if the transaction rolls back. Outside a transaction fn runs
// immediately.
func (u *UnitOfWork) AfterCommit(fn func()) {
	if u.depth == 0 {
		fn()
		return
	}
	u.hooks = append(u.hooks, fn)
}

// Do runs fn inside one level of the unit. fn receives a context bound to
// the unit; an error or panic from fn rolls the level back.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := u.Begin(ctx); err != nil {
		return err
	}
	ctx = WithUnit(ctx, u)

	finished := false
	defer func() {
		if finished {
			return
		}
		if p := recover(); p != nil {
			if err := u.Rollback(ctx); err != nil {
				u.logger.Error("rollback after panic failed", "error", err)
			}
			panic(p)
		}
	}()

	if err := fn(ctx); err != nil {
		finished = true
		if rbErr := u.Rollback(ctx); rbErr != nil {
			u.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	finished = true
	return u.Commit(ctx)
}
