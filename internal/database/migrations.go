package database

import (
	"context"
	"fmt"
)

// Chain columns default to 0, the "no neighbour" sentinel. There is no
// foreign key from card to cardlist: a list may only be deleted once its card
// chain is empty, and the services enforce that.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS board (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS cardlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL REFERENCES board(id),
		name TEXT NOT NULL,
		prev_list_id INTEGER NOT NULL DEFAULT 0,
		next_list_id INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cardlist_board ON cardlist(board_id)`,
	`CREATE TABLE IF NOT EXISTS card (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL REFERENCES board(id),
		cardlist_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		prev_card_id INTEGER NOT NULL DEFAULT 0,
		next_card_id INTEGER NOT NULL DEFAULT 0,
		cover_attachment_id INTEGER NOT NULL DEFAULT 0,
		label_mask INTEGER NOT NULL DEFAULT 0,
		flags INTEGER NOT NULL DEFAULT 0,
		last_moved_time INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_card_list ON card(cardlist_id)`,
	`CREATE TABLE IF NOT EXISTS permission (
		board_id INTEGER NOT NULL REFERENCES board(id),
		user_id INTEGER NOT NULL,
		user_type INTEGER NOT NULL,
		PRIMARY KEY (board_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attachment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL,
		board_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attachment_card ON attachment(card_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS board (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		created_at BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS cardlist (
		id BIGSERIAL PRIMARY KEY,
		board_id BIGINT NOT NULL REFERENCES board(id),
		name TEXT NOT NULL,
		prev_list_id BIGINT NOT NULL DEFAULT 0,
		next_list_id BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cardlist_board ON cardlist(board_id)`,
	`CREATE TABLE IF NOT EXISTS card (
		id BIGSERIAL PRIMARY KEY,
		board_id BIGINT NOT NULL REFERENCES board(id),
		cardlist_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		prev_card_id BIGINT NOT NULL DEFAULT 0,
		next_card_id BIGINT NOT NULL DEFAULT 0,
		cover_attachment_id BIGINT NOT NULL DEFAULT 0,
		label_mask BIGINT NOT NULL DEFAULT 0,
		flags BIGINT NOT NULL DEFAULT 0,
		last_moved_time BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_card_list ON card(cardlist_id)`,
	`CREATE TABLE IF NOT EXISTS permission (
		board_id BIGINT NOT NULL REFERENCES board(id),
		user_id BIGINT NOT NULL,
		user_type INTEGER NOT NULL,
		PRIMARY KEY (board_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attachment (
		id BIGSERIAL PRIMARY KEY,
		card_id BIGINT NOT NULL,
		board_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		created_at BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attachment_card ON attachment(card_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS board (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL DEFAULT 0
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS cardlist (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		board_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		prev_list_id BIGINT NOT NULL DEFAULT 0,
		next_list_id BIGINT NOT NULL DEFAULT 0,
		KEY idx_cardlist_board (board_id),
		FOREIGN KEY (board_id) REFERENCES board(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS card (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		board_id BIGINT NOT NULL,
		cardlist_id BIGINT NOT NULL,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		prev_card_id BIGINT NOT NULL DEFAULT 0,
		next_card_id BIGINT NOT NULL DEFAULT 0,
		cover_attachment_id BIGINT NOT NULL DEFAULT 0,
		label_mask BIGINT UNSIGNED NOT NULL DEFAULT 0,
		flags INT UNSIGNED NOT NULL DEFAULT 0,
		last_moved_time BIGINT NOT NULL DEFAULT 0,
		KEY idx_card_list (cardlist_id),
		FOREIGN KEY (board_id) REFERENCES board(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS permission (
		board_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		user_type INT NOT NULL,
		PRIMARY KEY (board_id, user_id),
		FOREIGN KEY (board_id) REFERENCES board(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS attachment (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		card_id BIGINT NOT NULL,
		board_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL DEFAULT 0,
		KEY idx_attachment_card (card_id)
	) ENGINE=InnoDB`,
}

func schemaFor(dialect Dialect) []string {
	switch dialect {
	case Postgres:
		return postgresSchema
	case MySQL:
		return mysqlSchema
	default:
		return sqliteSchema
	}
}

// Migrate creates the schema if it does not exist yet
func (d *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schemaFor(d.dialect) {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
