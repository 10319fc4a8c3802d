package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/kanban/internal/config"
	"xorm.io/builder"
)

func TestParseDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{input: "", want: SQLite},
		{input: "sqlite3", want: SQLite},
		{input: "Postgres", want: Postgres},
		{input: "pgx", want: Postgres},
		{input: "mariadb", want: MySQL},
		{input: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDialectPlaceholders(t *testing.T) {
	t.Parallel()

	query, args, err := Postgres.Builder().Select("id").From("card").
		Where(builder.Eq{"cardlist_id": 4}).And(builder.Eq{"prev_card_id": 0}).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "$1")
	assert.Contains(t, query, "$2")
	assert.Len(t, args, 2)

	query, _, err = MySQL.Builder().Select("id").From("card").Where(builder.Eq{"id": 1}).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "?")
}

func TestLockClause(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " FOR UPDATE", Postgres.lockClause())
	assert.Equal(t, " FOR UPDATE", MySQL.lockClause())
	assert.Empty(t, SQLite.lockClause())
	assert.True(t, Postgres.returningID())
	assert.False(t, SQLite.returningID())
}

func TestSQLiteDSN(t *testing.T) {
	t.Parallel()

	dsn := SQLiteDSN("/tmp/k.db")
	assert.True(t, strings.HasPrefix(dsn, "file:/tmp/k.db?"))
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Contains(t, dsn, "foreign_keys(1)")

	assert.Equal(t, "file:x.db?mode=ro", SQLiteDSN("file:x.db?mode=ro"))
}

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	dsn, err := buildDSN(MySQL, "u:p@tcp(db:3306)/kanban")
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(db:3306)/kanban?parseTime=true", dsn)

	dsn, err = buildDSN(MySQL, "u:p@tcp(db:3306)/kanban?charset=utf8mb4")
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(db:3306)/kanban?charset=utf8mb4&parseTime=true", dsn)

	_, err = buildDSN(Postgres, "")
	assert.Error(t, err)
}

func TestParseIsolation(t *testing.T) {
	t.Parallel()

	level, err := ParseIsolation("Repeatable Read")
	require.NoError(t, err)
	assert.Equal(t, sql.LevelRepeatableRead, level)

	level, err = ParseIsolation("")
	require.NoError(t, err)
	assert.Equal(t, sql.LevelDefault, level)

	_, err = ParseIsolation("chaos")
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	t.Parallel()

	cfg := config.Database{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "open.db"),
		Retry:  config.Retry{MaxAttempts: 1},
	}
	db, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, SQLite, db.Dialect())
	assert.Equal(t, 1, db.SQL().Stats().MaxOpenConnections)

	// Migrations are idempotent
	require.NoError(t, db.Migrate(context.Background()))
}
