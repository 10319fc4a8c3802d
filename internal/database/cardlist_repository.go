package database

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
	"xorm.io/builder"
)

const cardListColumns = "id, board_id, name, prev_list_id, next_list_id"

// CardListRepo handles card list rows. Chain pointers are maintained by
// chain.Store; Insert creates a detached row.
type CardListRepo struct {
	db *DB
}

// Insert creates a detached list row (prev and next 0) on a board
func (r *CardListRepo) Insert(ctx context.Context, boardID types.BoardID, name string) (types.CardListID, error) {
	id, err := r.db.Insert(ctx, "cardlist", builder.Eq{
		"board_id":     boardID.Int64(),
		"name":         name,
		"prev_list_id": 0,
		"next_list_id": 0,
	})
	if err != nil {
		return 0, fmt.Errorf("inserting card list: %w", err)
	}
	return types.CardListID(id), nil
}

// GetByID retrieves a card list by its ID
func (r *CardListRepo) GetByID(ctx context.Context, id types.CardListID) (*models.CardList, error) {
	var l models.CardList
	err := r.db.Get(ctx,
		r.db.Builder().Select(cardListColumns).From("cardlist").Where(builder.Eq{"id": id.Int64()}),
		&l.ID, &l.BoardID, &l.Name, &l.PrevID, &l.NextID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("card list %d not found", id))
	}
	return &l, nil
}

// ListByBoard returns the board's lists in storage order. Use chain.Iterator
// to put them in display order.
func (r *CardListRepo) ListByBoard(ctx context.Context, boardID types.BoardID) ([]*models.CardList, error) {
	rows, err := r.db.Query(ctx, r.db.Builder().Select(cardListColumns).From("cardlist").
		Where(builder.Eq{"board_id": boardID.Int64()}))
	if err != nil {
		return nil, fmt.Errorf("querying card lists for board: %w", err)
	}
	defer rows.Close()

	var lists []*models.CardList
	for rows.Next() {
		l := &models.CardList{}
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name, &l.PrevID, &l.NextID); err != nil {
			return nil, fmt.Errorf("scanning card list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card list rows: %w", err)
	}
	return lists, nil
}

// Rename updates the name of an existing list
func (r *CardListRepo) Rename(ctx context.Context, id types.CardListID, name string) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{"name": name}).
		From("cardlist").Where(builder.Eq{"id": id.Int64()}))
	return err
}

// Delete removes a list row. The row must already be unlinked from its chain.
func (r *CardListRepo) Delete(ctx context.Context, id types.CardListID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"id": id.Int64()}).From("cardlist"))
	return err
}

// DeleteByBoard removes every list of a board
func (r *CardListRepo) DeleteByBoard(ctx context.Context, boardID types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"board_id": boardID.Int64()}).From("cardlist"))
	return err
}
