package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
	"xorm.io/builder"
)

// PermissionRepo handles permission rows (board_id, user_id, user_type).
type PermissionRepo struct {
	db *DB
}

// Role returns the user's role on a board, RoleNone when no row exists
func (r *PermissionRepo) Role(ctx context.Context, boardID types.BoardID, user types.UserID) (models.Role, error) {
	var role int
	err := r.db.Get(ctx, r.db.Builder().Select("user_type").From("permission").
		Where(builder.Eq{"board_id": boardID.Int64(), "user_id": user.Int64()}), &role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, fmt.Errorf("reading permission: %w", err)
	}
	return models.Role(role), nil
}

// Set creates or replaces the user's role on a board
func (r *PermissionRepo) Set(ctx context.Context, p models.Permission) error {
	where := builder.Eq{"board_id": p.BoardID.Int64(), "user_id": p.UserID.Int64()}

	n, err := r.db.Count(ctx, "permission", where)
	if err != nil {
		return fmt.Errorf("checking permission: %w", err)
	}

	if n > 0 {
		_, err = r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{"user_type": int(p.Role)}).
			From("permission").Where(where))
	} else {
		_, err = r.db.Exec(ctx, r.db.Builder().Insert(builder.Eq{
			"board_id":  p.BoardID.Int64(),
			"user_id":   p.UserID.Int64(),
			"user_type": int(p.Role),
		}).Into("permission"))
	}
	if err != nil {
		return fmt.Errorf("writing permission: %w", err)
	}
	return nil
}

// Delete removes the user's row on a board
func (r *PermissionRepo) Delete(ctx context.Context, boardID types.BoardID, user types.UserID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().
		Delete(builder.Eq{"board_id": boardID.Int64(), "user_id": user.Int64()}).From("permission"))
	return err
}

// DeleteByBoard removes every permission row of a board
func (r *PermissionRepo) DeleteByBoard(ctx context.Context, boardID types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"board_id": boardID.Int64()}).From("permission"))
	return err
}

// ListByBoard returns a board's permission rows ordered by user id,
// templates first.
func (r *PermissionRepo) ListByBoard(ctx context.Context, boardID types.BoardID) ([]models.Permission, error) {
	return r.query(ctx, builder.Eq{"board_id": boardID.Int64()})
}

// ListTemplates returns the template rows (negative user ids) of every board
// for one template user id.
func (r *PermissionRepo) ListTemplates(ctx context.Context, template types.UserID) ([]models.Permission, error) {
	return r.query(ctx, builder.Eq{"user_id": template.Int64()})
}

func (r *PermissionRepo) query(ctx context.Context, cond builder.Cond) ([]models.Permission, error) {
	rows, err := r.db.Query(ctx, r.db.Builder().Select("board_id, user_id, user_type").
		From("permission").Where(cond).OrderBy("board_id, user_id"))
	if err != nil {
		return nil, fmt.Errorf("querying permissions: %w", err)
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		var (
			p    models.Permission
			role int
		)
		if err := rows.Scan(&p.BoardID, &p.UserID, &role); err != nil {
			return nil, fmt.Errorf("scanning permission row: %w", err)
		}
		p.Role = models.Role(role)
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating permission rows: %w", err)
	}
	return perms, nil
}
