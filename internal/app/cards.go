package app

import (
	"context"

	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	cardservice "github.com/thenoetrevino/kanban/internal/services/card"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Card returns a single card. Guests and above.
func (a *App) Card(ctx context.Context, actor identity.Actor, id types.CardID) (*models.Card, error) {
	var out *models.Card
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		c, err := a.CardService.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, c.BoardID, models.RoleGuest, "card.view"); err != nil {
			return nil, err
		}
		out = c
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddCard creates a card in a list. Members and above.
func (a *App) AddCard(ctx context.Context, actor identity.Actor, req cardservice.CreateCardRequest) (*models.Card, error) {
	var out *models.Card
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		board, err := a.listBoard(ctx, req.ListID)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, board, models.RoleMember, "card.add"); err != nil {
			return nil, err
		}
		c, err := a.CardService.AddNew(ctx, req)
		if err != nil {
			return nil, err
		}
		out = c
		return newEvent(events.EventCardAdded, actor, board.Int64(), c.ID.Int64(), c.ListID.Int64()), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveCard reorders a card or moves it to another list. A move to a list on
// another board needs member rights on both boards.
func (a *App) MoveCard(ctx context.Context, actor identity.Actor, req cardservice.MoveCardRequest) (*models.Card, error) {
	var out *models.Card
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		from, err := a.listBoard(ctx, req.FromListID)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, from, models.RoleMember, "card.move"); err != nil {
			return nil, err
		}
		if req.ToListID != 0 && req.ToListID != req.FromListID {
			to, err := a.listBoard(ctx, req.ToListID)
			if err != nil {
				return nil, err
			}
			if to != from {
				if err := a.require(ctx, actor, to, models.RoleMember, "card.move"); err != nil {
					return nil, err
				}
			}
		}
		c, err := a.CardService.Move(ctx, req)
		if err != nil {
			return nil, err
		}
		out = c
		return newEvent(events.EventCardMoved, actor, from.Int64(), c.ID.Int64(), c.ListID.Int64()), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenameCard changes a card title. Members and above.
func (a *App) RenameCard(ctx context.Context, actor identity.Actor, id types.CardID, title string) (*models.Card, error) {
	return a.UpdateCard(ctx, actor, cardservice.UpdateCardRequest{CardID: id, Title: &title})
}

// UpdateCard writes the fields set in req. Members and above.
func (a *App) UpdateCard(ctx context.Context, actor identity.Actor, req cardservice.UpdateCardRequest) (*models.Card, error) {
	var out *models.Card
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		board, err := a.cardBoard(ctx, req.CardID)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, board, models.RoleMember, "card.update"); err != nil {
			return nil, err
		}
		c, err := a.CardService.Update(ctx, req)
		if err != nil {
			return nil, err
		}
		out = c
		return newEvent(events.EventCardUpdated, actor, board.Int64(), c.ID.Int64(), c.ListID.Int64()), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCard removes a card with its attachments. Members and above.
func (a *App) DeleteCard(ctx context.Context, actor identity.Actor, id types.CardID) (*models.Card, error) {
	var out *models.Card
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		board, err := a.cardBoard(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, board, models.RoleMember, "card.delete"); err != nil {
			return nil, err
		}
		c, err := a.CardService.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		out = c
		return newEvent(events.EventCardDeleted, actor, board.Int64(), id.Int64(), c.ListID.Int64()), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) cardBoard(ctx context.Context, id types.CardID) (types.BoardID, error) {
	c, err := a.CardService.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return c.BoardID, nil
}
