package database

import (
	"context"
	"database/sql"
	"fmt"

	"xorm.io/builder"
)

// Querier is the subset of *sql.DB and *sql.Tx used by repositories
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Querier returns the transaction of the unit bound to ctx, or the pool when
// no unit is active.
func (d *DB) Querier(ctx context.Context) Querier {
	if u := unitFrom(ctx); u != nil && u.db == d && u.tx != nil {
		return u.tx
	}
	return d.sql
}

// Builder starts a statement for this database's dialect
func (d *DB) Builder() *builder.Builder {
	return d.dialect.Builder()
}

// Exec runs a built statement
func (d *DB) Exec(ctx context.Context, b *builder.Builder) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}
	return d.Querier(ctx).ExecContext(ctx, query, args...)
}

// Query runs a built select
func (d *DB) Query(ctx context.Context, b *builder.Builder) (*sql.Rows, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return d.Querier(ctx).QueryContext(ctx, query, args...)
}

// Get scans the single row of a built select into dest
func (d *DB) Get(ctx context.Context, b *builder.Builder, dest ...any) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return d.Querier(ctx).QueryRowContext(ctx, query, args...).Scan(dest...)
}

// GetForUpdate is Get with a row lock when ctx carries an active unit and
// the dialect supports locking reads.
func (d *DB) GetForUpdate(ctx context.Context, b *builder.Builder, dest ...any) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if u := unitFrom(ctx); u != nil && u.db == d && u.tx != nil {
		query += d.dialect.lockClause()
	}
	return d.Querier(ctx).QueryRowContext(ctx, query, args...).Scan(dest...)
}

// Insert adds a row to table and returns its generated id
func (d *DB) Insert(ctx context.Context, table string, values builder.Eq) (int64, error) {
	query, args, err := d.Builder().Insert(values).Into(table).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("building insert: %w", err)
	}

	q := d.Querier(ctx)
	if d.dialect.returningID() {
		var id int64
		if err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Count returns the number of rows in table matching cond
func (d *DB) Count(ctx context.Context, table string, cond builder.Cond) (int, error) {
	var n int
	err := d.Get(ctx, d.Builder().Select("COUNT(*)").From(table).Where(cond), &n)
	return n, err
}
