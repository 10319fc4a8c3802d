// Package database owns the SQL connection, the schema, the unit of work and
// the row repositories. SQLite, PostgreSQL and MySQL are supported.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/models"
)

// DB wraps the connection pool with its dialect and transaction settings.
type DB struct {
	sql     *sql.DB
	dialect Dialect
	txOpts  *sql.TxOptions
	logger  *slog.Logger
}

// Option configures a DB
type Option func(*DB)

// WithLogger sets the logger used by the DB and its units of work
func WithLogger(logger *slog.Logger) Option {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithIsolation sets the isolation level of outermost transactions
func WithIsolation(level sql.IsolationLevel) Option {
	return func(d *DB) {
		d.txOpts = &sql.TxOptions{Isolation: level}
	}
}

// New wraps an already opened pool
func New(sqlDB *sql.DB, dialect Dialect, opts ...Option) *DB {
	d := &DB{
		sql:     sqlDB,
		dialect: dialect,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open connects to the configured database, retrying with backoff, and
// runs migrations. Running out of attempts yields a connection error.
func Open(ctx context.Context, cfg config.Database, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, models.Wrap(models.KindValidation, "invalid database config", err)
	}
	isolation, err := ParseIsolation(cfg.Isolation)
	if err != nil {
		return nil, models.Wrap(models.KindValidation, "invalid database config", err)
	}
	dsn, err := buildDSN(dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	err = Retry(ctx, BackoffFromConfig(cfg.Retry), logger, func(ctx context.Context) error {
		conn, err := sql.Open(dialect.driverName(), dsn)
		if err != nil {
			return err
		}
		if err := conn.PingContext(ctx); err != nil {
			if closeErr := conn.Close(); closeErr != nil {
				logger.Error("error closing db", "error", closeErr)
			}
			return err
		}
		sqlDB = conn
		return nil
	})
	if err != nil {
		return nil, models.Wrap(models.KindConnection,
			fmt.Sprintf("connecting to %s failed after %d attempts", dialect, max(cfg.Retry.MaxAttempts, 1)), err)
	}

	configurePool(sqlDB, dialect, cfg.MaxOpenConns)

	db := New(sqlDB, dialect, WithLogger(logger), WithIsolation(isolation))
	if err := db.Migrate(ctx); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database ready", "dialect", dialect)
	return db, nil
}

// configurePool sizes the pool. SQLite benefits from a single writer
// connection, so it defaults to one.
func configurePool(db *sql.DB, dialect Dialect, maxOpen int) {
	if maxOpen <= 0 {
		if dialect == SQLite {
			maxOpen = 1
		} else {
			maxOpen = 10
		}
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
}

// buildDSN fills in dialect specific connection parameters. A bare sqlite
// path gets foreign keys, WAL, a busy timeout and immediate transactions.
func buildDSN(dialect Dialect, dsn string) (string, error) {
	switch dialect {
	case SQLite:
		if dsn == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir := filepath.Join(home, ".kanban")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			dsn = filepath.Join(dir, "kanban.db")
		}
		return SQLiteDSN(dsn), nil
	case MySQL:
		if dsn == "" {
			return "", models.Validation("mysql requires a dsn")
		}
		if !strings.Contains(dsn, "parseTime=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		return dsn, nil
	default:
		if dsn == "" {
			return "", models.Validation("postgres requires a dsn")
		}
		return dsn, nil
	}
}

// SQLiteDSN turns a file path into a modernc DSN with the pragmas this
// package relies on. DSNs that already carry parameters are returned as is.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_txlock=immediate"
}

// ParseIsolation maps a configured isolation name to a level
func ParseIsolation(name string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")) {
	case "", "default":
		return sql.LevelDefault, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q", name)
	}
}

// SQL returns the underlying pool
func (d *DB) SQL() *sql.DB { return d.sql }

// Dialect returns the backend dialect
func (d *DB) Dialect() Dialect { return d.dialect }

// Logger returns the logger shared with units of work
func (d *DB) Logger() *slog.Logger { return d.logger }

// Close closes the pool
func (d *DB) Close() error { return d.sql.Close() }
