package database

import (
	"fmt"
	"strings"

	"xorm.io/builder"

	// Registered drivers, one per supported dialect
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect maps a configured driver name to a Dialect
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (must be: sqlite, postgres, mysql)", name)
	}
}

// driverName is the database/sql driver registered for the dialect
func (d Dialect) driverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case MySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

func (d Dialect) builderName() string {
	switch d {
	case Postgres:
		return builder.POSTGRES
	case MySQL:
		return builder.MYSQL
	default:
		return builder.SQLITE
	}
}

// Builder starts a statement that renders placeholders for this dialect
func (d Dialect) Builder() *builder.Builder {
	return builder.Dialect(d.builderName())
}

// lockClause is appended to neighbour reads made inside a transaction.
// SQLite has no row locks; its connections begin IMMEDIATE transactions
// instead, which takes the write lock up front.
func (d Dialect) lockClause() string {
	switch d {
	case Postgres, MySQL:
		return " FOR UPDATE"
	default:
		return ""
	}
}

// returningID reports whether inserts must use RETURNING to learn the new id
func (d Dialect) returningID() bool {
	return d == Postgres
}
