package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/kanban/internal/models"
	"xorm.io/builder"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupTestDB creates a migrated SQLite database in a temp file
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := New(sqlDB, SQLite, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func boardCount(t *testing.T, db *DB) int {
	t.Helper()
	n, err := db.Count(context.Background(), "board", builder.NewCond())
	if err != nil {
		t.Fatalf("Failed to count boards: %v", err)
	}
	return n
}

func createBoard(ctx context.Context, t *testing.T, db *DB, name string) error {
	t.Helper()
	_, err := NewRepository(db).Boards.Create(ctx, name, time.Now())
	return err
}

// ============================================================================
// TEST CASES
// ============================================================================

func TestUnit_CommitAndRollback(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	err := db.NewUnit().Do(ctx, func(ctx context.Context) error {
		return createBoard(ctx, t, db, "kept")
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	boom := errors.New("boom")
	err = db.NewUnit().Do(ctx, func(ctx context.Context) error {
		if err := createBoard(ctx, t, db, "discarded"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected fn error, got %v", err)
	}

	if n := boardCount(t, db); n != 1 {
		t.Errorf("Expected 1 board after rollback, got %d", n)
	}
}

func TestUnit_NestedCommit(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	u := db.NewUnit()

	err := u.Do(ctx, func(ctx context.Context) error {
		if got := db.Unit(ctx); got != u {
			t.Errorf("Expected nested Unit to return the bound unit")
		}
		if err := createBoard(ctx, t, db, "outer"); err != nil {
			return err
		}
		return db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
			if u.Depth() != 2 {
				t.Errorf("Expected depth 2, got %d", u.Depth())
			}
			return createBoard(ctx, t, db, "inner")
		})
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.Active() {
		t.Error("Expected unit to be idle after Do")
	}
	if n := boardCount(t, db); n != 2 {
		t.Errorf("Expected 2 boards, got %d", n)
	}
}

func TestUnit_NestedRollbackPoisonsOuter(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	inner := errors.New("inner failed")

	err := db.NewUnit().Do(ctx, func(ctx context.Context) error {
		if err := createBoard(ctx, t, db, "outer"); err != nil {
			return err
		}
		innerErr := db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
			if err := createBoard(ctx, t, db, "inner"); err != nil {
				return err
			}
			return inner
		})
		if !errors.Is(innerErr, inner) {
			t.Errorf("Expected inner error, got %v", innerErr)
		}
		// Swallow the failure: the outer commit must still refuse
		return nil
	})

	if !errors.Is(err, ErrNestedRollback) {
		t.Fatalf("Expected ErrNestedRollback, got %v", err)
	}
	if !errors.Is(err, models.ErrTransaction) {
		t.Errorf("Expected transaction kind, got %v", err)
	}
	if n := boardCount(t, db); n != 0 {
		t.Errorf("Expected no boards after poisoned commit, got %d", n)
	}
}

func TestUnit_SavepointDiscardsOnlyInnerWrites(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	u := db.NewUnit()

	if err := u.Begin(ctx); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	uctx := WithUnit(ctx, u)
	if err := createBoard(uctx, t, db, "outer"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := u.Begin(uctx); err != nil {
		t.Fatalf("nested Begin failed: %v", err)
	}
	if err := createBoard(uctx, t, db, "inner"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := u.Rollback(uctx); err != nil {
		t.Fatalf("nested Rollback failed: %v", err)
	}

	var n int
	if err := db.Get(uctx, db.Builder().Select("COUNT(*)").From("board"), &n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected only the outer board inside the transaction, got %d", n)
	}

	if err := u.Rollback(uctx); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
}

func TestUnit_NoTransaction(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	u := db.NewUnit()

	if err := u.Commit(context.Background()); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("Expected ErrNoTransaction from Commit, got %v", err)
	}
	if err := u.Rollback(context.Background()); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("Expected ErrNoTransaction from Rollback, got %v", err)
	}
}

func TestUnit_PanicRollsBack(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	u := db.NewUnit()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic to propagate")
			}
		}()
		_ = u.Do(ctx, func(ctx context.Context) error {
			if err := createBoard(ctx, t, db, "lost"); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if u.Active() {
		t.Error("Expected unit to be idle after panic")
	}
	if n := boardCount(t, db); n != 0 {
		t.Errorf("Expected no boards after panic, got %d", n)
	}
}

func TestUnit_Reusable(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	u := db.NewUnit()

	_ = u.Do(ctx, func(ctx context.Context) error {
		_ = db.Unit(ctx).Do(ctx, func(context.Context) error { return errors.New("fail") })
		return nil
	})

	// A poisoned unit is clean again for its next transaction
	if err := u.Do(ctx, func(ctx context.Context) error {
		return createBoard(ctx, t, db, "second")
	}); err != nil {
		t.Fatalf("Expected reused unit to commit, got %v", err)
	}
	if n := boardCount(t, db); n != 1 {
		t.Errorf("Expected 1 board, got %d", n)
	}
}

func TestSavepointName(t *testing.T) {
	t.Parallel()

	if savepointName(1) == savepointName(2) {
		t.Error("Expected distinct savepoint names per level")
	}
}

func TestUnit_AfterCommit(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	var ran []string
	err := db.NewUnit().Do(ctx, func(ctx context.Context) error {
		db.Unit(ctx).AfterCommit(func() { ran = append(ran, "outer") })
		return db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
			db.Unit(ctx).AfterCommit(func() { ran = append(ran, "inner") })
			if len(ran) != 0 {
				t.Error("Expected hooks to wait for the outermost commit")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ran) != 2 || ran[0] != "outer" || ran[1] != "inner" {
		t.Errorf("Expected hooks in registration order, got %v", ran)
	}
}

func TestUnit_AfterCommitDroppedOnRollback(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	ran := false
	_ = db.NewUnit().Do(ctx, func(ctx context.Context) error {
		db.Unit(ctx).AfterCommit(func() { ran = true })
		return errors.New("boom")
	})
	if ran {
		t.Error("Expected hook to be discarded after rollback")
	}

	// A poisoned commit drops hooks too
	_ = db.NewUnit().Do(ctx, func(ctx context.Context) error {
		db.Unit(ctx).AfterCommit(func() { ran = true })
		_ = db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
			return errors.New("inner")
		})
		return nil
	})
	if ran {
		t.Error("Expected hook to be discarded after nested rollback")
	}

	db.NewUnit().AfterCommit(func() { ran = true })
	if !ran {
		t.Error("Expected hook outside a transaction to run immediately")
	}
}
