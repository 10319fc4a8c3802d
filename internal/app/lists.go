package app

import (
	"context"

	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	listservice "github.com/thenoetrevino/kanban/internal/services/cardlist"
	"github.com/thenoetrevino/kanban/internal/types"
)

// AddList creates a list on a board. Moderators and above.
func (a *App) AddList(ctx context.Context, actor identity.Actor, req listservice.CreateListRequest) (*models.CardList, error) {
	var out *models.CardList
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.require(ctx, actor, req.BoardID, models.RoleModerator, "list.add"); err != nil {
			return nil, err
		}
		l, err := a.ListService.AddNew(ctx, req)
		if err != nil {
			return nil, err
		}
		out = l
		return newEvent(events.EventListAdded, actor, l.BoardID.Int64(), l.ID.Int64(), l.BoardID.Int64()), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveList reorders a list or moves it to another board. The actor must be
// a moderator on both boards.
func (a *App) MoveList(ctx context.Context, actor identity.Actor, req listservice.MoveListRequest) (*models.CardList, error) {
	var out *models.CardList
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.require(ctx, actor, req.FromBoardID, models.RoleModerator, "list.move"); err != nil {
			return nil, err
		}
		if req.ToBoardID != 0 && req.ToBoardID != req.FromBoardID {
			if err := a.require(ctx, actor, req.ToBoardID, models.RoleModerator, "list.move"); err != nil {
				return nil, err
			}
		}
		l, err := a.ListService.Move(ctx, req)
		if err != nil {
			return nil, err
		}
		out = l
		return newEvent(events.EventListMoved, actor, req.FromBoardID.Int64(), l.ID.Int64(), l.BoardID.Int64()), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenameList renames a list. Moderators and above.
func (a *App) RenameList(ctx context.Context, actor identity.Actor, id types.CardListID, name string) (*models.CardList, error) {
	var out *models.CardList
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		board, err := a.listBoard(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, board, models.RoleModerator, "list.rename"); err != nil {
			return nil, err
		}
		l, err := a.ListService.Rename(ctx, id, name)
		if err != nil {
			return nil, err
		}
		out = l
		return newEvent(events.EventListRenamed, actor, board.Int64(), id.Int64(), 0), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteList deletes an empty list. Moderators and above.
func (a *App) DeleteList(ctx context.Context, actor identity.Actor, id types.CardListID) (*models.CardList, error) {
	var out *models.CardList
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		board, err := a.listBoard(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := a.require(ctx, actor, board, models.RoleModerator, "list.delete"); err != nil {
			return nil, err
		}
		l, err := a.ListService.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		out = l
		return newEvent(events.EventListDeleted, actor, board.Int64(), id.Int64(), 0), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) listBoard(ctx context.Context, id types.CardListID) (types.BoardID, error) {
	l, err := a.ListService.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return l.BoardID, nil
}
