package database

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
	"xorm.io/builder"
)

// AttachmentRepo handles attachment metadata rows. File contents live in an
// external storage service and are not touched here.
type AttachmentRepo struct {
	db *DB
}

// Create records an attachment for a card
func (r *AttachmentRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	id, err := r.db.Insert(ctx, "attachment", builder.Eq{
		"card_id":    a.CardID.Int64(),
		"board_id":   a.BoardID.Int64(),
		"name":       a.Name,
		"created_at": timeToUnix(a.CreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting attachment: %w", err)
	}
	out := *a
	out.ID = types.AttachmentID(id)
	return &out, nil
}

// ListByCard returns a card's attachments ordered by id
func (r *AttachmentRepo) ListByCard(ctx context.Context, cardID types.CardID) ([]*models.Attachment, error) {
	rows, err := r.db.Query(ctx, r.db.Builder().Select("id, card_id, board_id, name, created_at").
		From("attachment").Where(builder.Eq{"card_id": cardID.Int64()}).OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var out []*models.Attachment
	for rows.Next() {
		var (
			a       models.Attachment
			created int64
		)
		if err := rows.Scan(&a.ID, &a.CardID, &a.BoardID, &a.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		a.CreatedAt = unixToTime(created)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachment rows: %w", err)
	}
	return out, nil
}

// DeleteByCard removes a card's attachment rows and reports how many went
func (r *AttachmentRepo) DeleteByCard(ctx context.Context, cardID types.CardID) (int, error) {
	n, err := r.db.Count(ctx, "attachment", builder.Eq{"card_id": cardID.Int64()})
	if err != nil {
		return 0, fmt.Errorf("counting attachments: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	if _, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"card_id": cardID.Int64()}).From("attachment")); err != nil {
		return 0, fmt.Errorf("deleting attachments: %w", err)
	}
	return n, nil
}

// DeleteByBoard removes every attachment row of a board
func (r *AttachmentRepo) DeleteByBoard(ctx context.Context, boardID types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Delete(builder.Eq{"board_id": boardID.Int64()}).From("attachment"))
	return err
}

// SetBoardForCard moves a card's attachment rows to another board
func (r *AttachmentRepo) SetBoardForCard(ctx context.Context, cardID types.CardID, boardID types.BoardID) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{"board_id": boardID.Int64()}).
		From("attachment").Where(builder.Eq{"card_id": cardID.Int64()}))
	return err
}

// SetBoardForList moves the attachment rows of every card in a list to
// another board
func (r *AttachmentRepo) SetBoardForList(ctx context.Context, listID types.CardListID, boardID types.BoardID) error {
	cards := builder.Select("id").From("card").Where(builder.Eq{"cardlist_id": listID.Int64()})
	_, err := r.db.Exec(ctx, r.db.Builder().Update(builder.Eq{"board_id": boardID.Int64()}).
		From("attachment").Where(builder.In("card_id", cards)))
	return err
}
