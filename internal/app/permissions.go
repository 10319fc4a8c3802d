package app

import (
	"context"

	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/services/permission"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Grant sets a user's role on a board, subject to the grant rules
func (a *App) Grant(ctx context.Context, actor identity.Actor, req permission.GrantRequest) error {
	return a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.PermissionService.Grant(ctx, actor, req); err != nil {
			return nil, err
		}
		return newEvent(events.EventPermissionChanged, actor, req.BoardID.Int64(), req.UserID.Int64(), 0), nil
	})
}

// Revoke removes a user's role on a board
func (a *App) Revoke(ctx context.Context, actor identity.Actor, boardID types.BoardID, user types.UserID) error {
	return a.run(ctx, func(ctx context.Context) (*events.Event, error) {
		if err := a.PermissionService.Revoke(ctx, actor, boardID, user); err != nil {
			return nil, err
		}
		return newEvent(events.EventPermissionChanged, actor, boardID.Int64(), user.Int64(), 0), nil
	})
}

// Permissions lists a board's permission rows
func (a *App) Permissions(ctx context.Context, actor identity.Actor, boardID types.BoardID) ([]models.Permission, error) {
	return a.PermissionService.List(ctx, actor, boardID)
}

// RegisterUser applies the registration template rows to a new user and
// returns how many boards they joined
func (a *App) RegisterUser(ctx context.Context, user types.UserID) (int, error) {
	return a.PermissionService.ApplyTemplates(ctx, permission.RegistrationTemplate, user)
}
