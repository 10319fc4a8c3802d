package database

import (
	"context"
	"fmt"
	"time"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
	"xorm.io/builder"
)

const boardColumns = "id, name, created_at"

// BoardRepo handles all board-related database operations.
type BoardRepo struct {
	db *DB
}

// Create inserts a board
func (r *BoardRepo) Create(ctx context.Context, name string, createdAt time.Time) (*models.Board, error) {
	id, err := r.db.Insert(ctx, "board", builder.Eq{
		"name":       name,
		"created_at": timeToUnix(createdAt),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting board: %w", err)
	}
	return &models.Board{ID: types.BoardID(id), Name: name, CreatedAt: createdAt.UTC().Truncate(time.Second)}, nil
}

// GetByID retrieves a board by its ID
func (r *BoardRepo) GetByID(ctx context.Context, id types.BoardID) (*models.Board, error) {
	var (
		b       models.Board
		created int64
	)
	err := r.db.Get(ctx,
		r.db.Builder().Select(boardColumns).From("board").Where(builder.Eq{"id": id.Int64()}),
		&b.ID, &b.Name, &created)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("board %d not found", id))
	}
	b.CreatedAt = unixToTime(created)
	return &b, nil
}

// List returns every board ordered by id
func (r *BoardRepo) List(ctx context.Context) ([]*models.Board, error) {
	return r.query(ctx, r.db.Builder().Select(boardColumns).From("board").OrderBy("id"))
}

// ListForUser returns the boards where user holds a role better than
// blocked, ordered by id.
func (r *BoardRepo) ListForUser(ctx context.Context, user types.UserID) ([]*models.Board, error) {
	member := builder.Select("board_id").From("permission").Where(builder.And(
		builder.Eq{"user_id": user.Int64()},
		builder.Lt{"user_type": int(models.RoleBlocked)},
	))
	return r.query(ctx, r.db.Builder().Select(boardColumns).From("board").
		Where(builder.In("id", member)).OrderBy("id"))
}

func (r *BoardRepo) query(ctx context.Context, b *builder.Builder) ([]*models.Board, error) {
	rows, err := r.db.Query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		var (
			board   models.Board
			created int64
		)
		if err := rows.Scan(&board.ID, &board.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning board row: %w", err)
		}
		board.CreatedAt = unixToTime(created)
		boards = append(boards, &board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating board rows: %w", err)
	}
	return boards, nil
}

// Rename updates the name of a board
func (r *BoardRepo) Rename(ctx context.Context, id types.BoardID, name string) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{"name": name}).
		From("board").Where(builder.Eq{"id": id.Int64()}))
	return err
}

// Delete removes a board row. Callers delete the board's cards, lists,
// attachments and permissions first, inside the same unit of work.
func (r *BoardRepo) Delete(ctx context.Context, id types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"id": id.Int64()}).From("board"))
	return err
}
