package app

import (
	"context"

	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	boardservice "github.com/thenoetrevino/kanban/internal/services/board"
	"github.com/thenoetrevino/kanban/internal/types"
)

// ErrAnonymous is returned when an operation needs a real user
var ErrAnonymous = models.Denied("", "a signed-in user is required")

// CreateBoard creates a board owned by actor
func (a *App) CreateBoard(ctx context.Context, actor identity.Actor, name string) (*models.Board, error) {
	if actor.UserID <= 0 && !actor.Admin {
		return nil, models.WithOp("board.create", ErrAnonymous)
	}

	var out *models.Board
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		b, err := a.BoardService.Create(ctx, name)
		if err != nil {
			return nil, err
		}
		if actor.UserID > 0 {
			if err := a.PermissionService.SetOwner(ctx, b.ID, actor.UserID); err != nil {
				return nil, err
			}
		}
		out = b
		return newEvent(events.EventBoardCreated, actor, b.ID.Int64(), b.ID.Int64(), 0), nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("board created", "board_id", out.ID, "owner", actor.UserID)
	return out, nil
}

// DeleteBoard removes a board and everything on it. Owners only.
func (a *App) DeleteBoard(ctx context.Context, actor identity.Actor, id types.BoardID) (*models.Board, error) {
	var out *models.Board
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.require(ctx, actor, id, models.RoleOwner, "board.delete"); err != nil {
			return nil, err
		}
		b, err := a.BoardService.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		out = b
		return newEvent(events.EventBoardDeleted, actor, id.Int64(), id.Int64(), 0), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenameBoard changes a board name. Moderators and above.
func (a *App) RenameBoard(ctx context.Context, actor identity.Actor, id types.BoardID, name string) (*models.Board, error) {
	var out *models.Board
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.require(ctx, actor, id, models.RoleModerator, "board.rename"); err != nil {
			return nil, err
		}
		b, err := a.BoardService.Rename(ctx, id, name)
		if err != nil {
			return nil, err
		}
		out = b
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BoardView returns a board with its lists and cards in display order
func (a *App) BoardView(ctx context.Context, actor identity.Actor, id types.BoardID) (*models.BoardView, error) {
	var out *models.BoardView
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.require(ctx, actor, id, models.RoleGuest, "board.view"); err != nil {
			return nil, err
		}
		v, err := a.BoardService.View(ctx, id)
		if err != nil {
			return nil, err
		}
		out = v
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Boards lists the boards actor can see. Administrators see every board.
func (a *App) Boards(ctx context.Context, actor identity.Actor) ([]*models.Board, error) {
	if actor.Admin {
		return a.BoardService.List(ctx)
	}
	return a.BoardService.ListForUser(ctx, actor.UserID)
}

// VerifyBoard checks every chain on a board
func (a *App) VerifyBoard(ctx context.Context, actor identity.Actor, id types.BoardID) (*boardservice.Health, error) {
	var out *boardservice.Health
	err := a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.require(ctx, actor, id, models.RoleGuest, "board.verify"); err != nil {
			return nil, err
		}
		h, err := a.BoardService.Verify(ctx, id)
		if err != nil {
			return nil, err
		}
		out = h
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
