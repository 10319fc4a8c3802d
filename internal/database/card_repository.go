package database

import (
	"context"
	"fmt"
	"time"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
	"xorm.io/builder"
)

const cardColumns = "id, board_id, cardlist_id, title, content, prev_card_id, next_card_id, " +
	"cover_attachment_id, label_mask, flags, last_moved_time"

// CardRepo handles card rows. Chain pointers are maintained by chain.Store;
// Insert creates a detached row.
type CardRepo struct {
	db *DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(s rowScanner) (*models.Card, error) {
	var (
		c     models.Card
		mask  int64
		flags int64
		moved int64
	)
	if err := s.Scan(&c.ID, &c.BoardID, &c.ListID, &c.Title, &c.Content, &c.PrevID, &c.NextID,
		&c.CoverAttachmentID, &mask, &flags, &moved); err != nil {
		return nil, err
	}
	c.LabelMask = models.LabelMask(uint64(mask))
	c.Flags = models.CardFlags(uint32(flags))
	c.LastMovedTime = unixToTime(moved)
	return &c, nil
}

// Insert creates a detached card row (prev and next 0) and returns its id
func (r *CardRepo) Insert(ctx context.Context, c *models.Card) (types.CardID, error) {
	id, err := r.db.Insert(ctx, "card", builder.Eq{
		"board_id":            c.BoardID.Int64(),
		"cardlist_id":         c.ListID.Int64(),
		"title":               c.Title,
		"content":             c.Content,
		"prev_card_id":        0,
		"next_card_id":        0,
		"cover_attachment_id": c.CoverAttachmentID.Int64(),
		"label_mask":          int64(c.LabelMask),
		"flags":               int64(c.Flags),
		"last_moved_time":     timeToUnix(c.LastMovedTime),
	})
	if err != nil {
		return 0, fmt.Errorf("inserting card: %w", err)
	}
	return types.CardID(id), nil
}

// GetByID retrieves a card by its ID
func (r *CardRepo) GetByID(ctx context.Context, id types.CardID) (*models.Card, error) {
	query, args, err := r.db.Builder().Select(cardColumns).From("card").
		Where(builder.Eq{"id": id.Int64()}).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	c, err := scanCard(r.db.Querier(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("card %d not found", id))
	}
	return c, nil
}

// ListByList returns a list's cards in storage order. Use chain.Iterator to
// put them in display order.
func (r *CardRepo) ListByList(ctx context.Context, listID types.CardListID) ([]*models.Card, error) {
	return r.query(ctx, builder.Eq{"cardlist_id": listID.Int64()})
}

// ListByBoard returns every card on a board in storage order
func (r *CardRepo) ListByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Card, error) {
	return r.query(ctx, builder.Eq{"board_id": boardID.Int64()})
}

func (r *CardRepo) query(ctx context.Context, cond builder.Cond) ([]*models.Card, error) {
	rows, err := r.db.Query(ctx, r.db.Builder().Select(cardColumns).From("card").Where(cond))
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}
	return cards, nil
}

// CountByList returns the number of cards in a list
func (r *CardRepo) CountByList(ctx context.Context, listID types.CardListID) (int, error) {
	return r.db.Count(ctx, "card", builder.Eq{"cardlist_id": listID.Int64()})
}

// Update writes the editable card fields
func (r *CardRepo) Update(ctx context.Context, c *models.Card) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{
		"title":               c.Title,
		"content":             c.Content,
		"cover_attachment_id": c.CoverAttachmentID.Int64(),
		"label_mask":          int64(c.LabelMask),
		"flags":               int64(c.Flags),
	}).From("card").Where(builder.Eq{"id": c.ID.Int64()}))
	return err
}

// SetMoved records a move to another list: the board follows the list and
// last_moved_time is refreshed.
func (r *CardRepo) SetMoved(ctx context.Context, id types.CardID, boardID types.BoardID, at time.Time) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{
		"board_id":        boardID.Int64(),
		"last_moved_time": timeToUnix(at),
	}).From("card").Where(builder.Eq{"id": id.Int64()}))
	return err
}

// SetBoardForList moves every card of a list to another board
func (r *CardRepo) SetBoardForList(ctx context.Context, listID types.CardListID, boardID types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{"board_id": boardID.Int64()}).
		From("card").Where(builder.Eq{"cardlist_id": listID.Int64()}))
	return err
}

// Delete removes a card row. The row must already be unlinked from its chain.
func (r *CardRepo) Delete(ctx context.Context, id types.CardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"id": id.Int64()}).From("card"))
	return err
}

// DeleteByBoard removes every card of a board
func (r *CardRepo) DeleteByBoard(ctx context.Context, boardID types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"board_id": boardID.Int64()}).From("card"))
	return err
}
