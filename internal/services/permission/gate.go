// Package permission implements the board role gate and permission grants.
package permission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Resolver looks up a user's role on a board. It returns models.RoleNone
// when the user has no permission row.
type Resolver interface {
	Role(ctx context.Context, boardID types.BoardID, user types.UserID) (models.Role, error)
}

// Gate checks actors against required roles
type Gate struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewGate creates a gate backed by resolver
func NewGate(resolver Resolver, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{resolver: resolver, logger: logger}
}

// Check reports whether actual carries at least the privilege of required.
// Lower ordinals are more privileged.
func Check(actual, required models.Role) bool {
	return actual.Satisfies(required)
}

// RoleOf returns the effective role of actor on a board. Administrators
// are treated as owners of every board.
func (g *Gate) RoleOf(ctx context.Context, actor identity.Actor, boardID types.BoardID) (models.Role, error) {
	if actor.Admin {
		return models.RoleOwner, nil
	}
	role, err := g.resolver.Role(ctx, boardID, actor.UserID)
	if err != nil {
		return models.RoleNone, fmt.Errorf("resolving role: %w", err)
	}
	return role, nil
}

// Require fails with a permission error carrying op unless actor holds at
// least required on the board. It returns the actor's effective role.
func (g *Gate) Require(ctx context.Context, actor identity.Actor, boardID types.BoardID, required models.Role, op string) (models.Role, error) {
	role, err := g.RoleOf(ctx, actor, boardID)
	if err != nil {
		return models.RoleNone, models.WithOp(op, err)
	}
	if !Check(role, required) {
		g.logger.Info("permission denied",
			"op", op,
			"user_id", actor.UserID,
			"board_id", boardID,
			"role", role,
			"required", required)
		return role, &models.Error{
			Kind:    models.KindPermissionDenied,
			Op:      op,
			Message: fmt.Sprintf("%s role required, have %s", required, role),
			Err:     ErrInsufficientRole,
		}
	}
	return role, nil
}

// CanGrant applies the grant rules for actor (holding actorRole) changing
// target from current to next:
//   - nobody edits their own record
//   - template rows (negative user ids) are for administrators only
//   - the new role must be strictly below the actor's
//   - the target's current role must be strictly below the actor's
//
// Administrators act as owners, so they may grant up to moderator and never
// touch another owner.
func CanGrant(actor identity.Actor, actorRole models.Role, target types.UserID, current, next models.Role) error {
	if target == actor.UserID {
		return ErrSelfModify
	}
	if target.IsTemplate() {
		if !actor.Admin {
			return ErrTemplateAdmin
		}
		return nil
	}
	if actor.Admin {
		actorRole = models.RoleOwner
	}
	if next <= actorRole {
		return ErrRoleTooHigh
	}
	if current <= actorRole {
		return ErrTargetOutranks
	}
	return nil
}
