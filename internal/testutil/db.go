package testutil

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// DiscardLogger returns a logger that drops every record
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTestDB creates a migrated SQLite database in a temp file.
// A file is used instead of :memory: so every pooled connection sees the
// same data.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kanban-test.db")
	sqlDB, err := sql.Open("sqlite", database.SQLiteDSN(path))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := database.New(sqlDB, database.SQLite, database.WithLogger(DiscardLogger()))
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// CreateTestBoard creates a board and returns its ID
func CreateTestBoard(t *testing.T, db *database.DB, name string) types.BoardID {
	t.Helper()
	result, err := db.SQL().ExecContext(context.Background(),
		"INSERT INTO board (name, created_at) VALUES (?, ?)", name, time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}
	id, _ := result.LastInsertId()
	return types.BoardID(id)
}

// CreateTestList appends a list to the board's chain and returns its ID
func CreateTestList(t *testing.T, db *database.DB, boardID types.BoardID, name string) types.CardListID {
	t.Helper()
	ctx := context.Background()

	tail := tailOf(t, db, "SELECT id FROM cardlist WHERE board_id = ? AND next_list_id = 0", boardID.Int64())
	result, err := db.SQL().ExecContext(ctx,
		"INSERT INTO cardlist (board_id, name, prev_list_id, next_list_id) VALUES (?, ?, ?, 0)",
		boardID.Int64(), name, tail)
	if err != nil {
		t.Fatalf("Failed to create test list: %v", err)
	}
	id, _ := result.LastInsertId()
	if tail != 0 {
		if _, err := db.SQL().ExecContext(ctx, "UPDATE cardlist SET next_list_id = ? WHERE id = ?", id, tail); err != nil {
			t.Fatalf("Failed to link test list: %v", err)
		}
	}
	return types.CardListID(id)
}

// CreateTestCard appends a card to the list's chain and returns its ID
func CreateTestCard(t *testing.T, db *database.DB, listID types.CardListID, title string) types.CardID {
	t.Helper()
	ctx := context.Background()

	var boardID int64
	if err := db.SQL().QueryRowContext(ctx, "SELECT board_id FROM cardlist WHERE id = ?", listID.Int64()).Scan(&boardID); err != nil {
		t.Fatalf("Failed to find list %d: %v", listID, err)
	}

	tail := tailOf(t, db, "SELECT id FROM card WHERE cardlist_id = ? AND next_card_id = 0", listID.Int64())
	result, err := db.SQL().ExecContext(ctx,
		`INSERT INTO card (board_id, cardlist_id, title, prev_card_id, next_card_id, last_moved_time)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		boardID, listID.Int64(), title, tail, time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to create test card: %v", err)
	}
	id, _ := result.LastInsertId()
	if tail != 0 {
		if _, err := db.SQL().ExecContext(ctx, "UPDATE card SET next_card_id = ? WHERE id = ?", id, tail); err != nil {
			t.Fatalf("Failed to link test card: %v", err)
		}
	}
	return types.CardID(id)
}

// CreateTestAttachment records an attachment for a card
func CreateTestAttachment(t *testing.T, db *database.DB, cardID types.CardID, name string) types.AttachmentID {
	t.Helper()
	result, err := db.SQL().ExecContext(context.Background(),
		"INSERT INTO attachment (card_id, board_id, name, created_at) SELECT id, board_id, ?, ? FROM card WHERE id = ?",
		name, time.Now().Unix(), cardID.Int64())
	if err != nil {
		t.Fatalf("Failed to create test attachment: %v", err)
	}
	id, _ := result.LastInsertId()
	return types.AttachmentID(id)
}

// GrantTestRole gives user a role on a board
func GrantTestRole(t *testing.T, db *database.DB, boardID types.BoardID, user types.UserID, role models.Role) {
	t.Helper()
	_, err := db.SQL().ExecContext(context.Background(),
		"INSERT OR REPLACE INTO permission (board_id, user_id, user_type) VALUES (?, ?, ?)",
		boardID.Int64(), user.Int64(), int(role))
	if err != nil {
		t.Fatalf("Failed to grant test role: %v", err)
	}
}

// CorruptLink overwrites a row's chain pointers. table is "card" or "cardlist".
func CorruptLink(t *testing.T, db *database.DB, table string, id, prev, next int64) {
	t.Helper()
	var query string
	switch table {
	case "card":
		query = "UPDATE card SET prev_card_id = ?, next_card_id = ? WHERE id = ?"
	case "cardlist":
		query = "UPDATE cardlist SET prev_list_id = ?, next_list_id = ? WHERE id = ?"
	default:
		t.Fatalf("unknown chain table %q", table)
	}
	if _, err := db.SQL().ExecContext(context.Background(), query, prev, next, id); err != nil {
		t.Fatalf("Failed to corrupt %s %d: %v", table, id, err)
	}
}

func tailOf(t *testing.T, db *database.DB, query string, scope int64) int64 {
	t.Helper()
	var id int64
	err := db.SQL().QueryRowContext(context.Background(), query+" ORDER BY id DESC LIMIT 1", scope).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0
	}
	if err != nil {
		t.Fatalf("Failed to find chain tail: %v", err)
	}
	return id
}
