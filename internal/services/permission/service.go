package permission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// RegistrationTemplate is the template user whose rows are copied onto every
// newly registered user.
const RegistrationTemplate types.UserID = -1

// Service defines permission management operations
type Service interface {
	// Read operations
	Role(ctx context.Context, boardID types.BoardID, user types.UserID) (models.Role, error)
	List(ctx context.Context, actor identity.Actor, boardID types.BoardID) ([]models.Permission, error)

	// Write operations
	Grant(ctx context.Context, actor identity.Actor, req GrantRequest) error
	Revoke(ctx context.Context, actor identity.Actor, boardID types.BoardID, user types.UserID) error
	SetOwner(ctx context.Context, boardID types.BoardID, user types.UserID) error
	ApplyTemplates(ctx context.Context, template, user types.UserID) (int, error)
}

// GrantRequest encapsulates data for granting a role
type GrantRequest struct {
	BoardID types.BoardID
	UserID  types.UserID
	Role    models.Role
}

// repository defines the data access methods needed by the permission service
type repository interface {
	Resolver
	Set(ctx context.Context, p models.Permission) error
	Delete(ctx context.Context, boardID types.BoardID, user types.UserID) error
	ListByBoard(ctx context.Context, boardID types.BoardID) ([]models.Permission, error)
	ListTemplates(ctx context.Context, template types.UserID) ([]models.Permission, error)
}

type service struct {
	db     *database.DB
	repo   repository
	gate   *Gate
	logger *slog.Logger
}

// NewService creates a new permission service
func NewService(db *database.DB, repo repository, gate *Gate) Service {
	return &service{
		db:     db,
		repo:   repo,
		gate:   gate,
		logger: db.Logger(),
	}
}

// Role returns the stored role of user on a board
func (s *service) Role(ctx context.Context, boardID types.BoardID, user types.UserID) (models.Role, error) {
	if boardID <= 0 {
		return models.RoleNone, ErrInvalidBoardID
	}
	return s.repo.Role(ctx, boardID, user)
}

// List returns a board's permission rows. Any role that can view the board
// may list them.
func (s *service) List(ctx context.Context, actor identity.Actor, boardID types.BoardID) ([]models.Permission, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	if _, err := s.gate.Require(ctx, actor, boardID, models.RoleGuest, "permission.list"); err != nil {
		return nil, err
	}
	return s.repo.ListByBoard(ctx, boardID)
}

// Grant sets the role of another user, subject to the grant rules
func (s *service) Grant(ctx context.Context, actor identity.Actor, req GrantRequest) error {
	if req.BoardID <= 0 {
		return ErrInvalidBoardID
	}
	if !req.Role.Valid() || req.Role == models.RoleNone {
		return ErrInvalidRole
	}

	return s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		if req.UserID.IsTemplate() && !actor.Admin {
			return models.WithOp("permission.grant", ErrTemplateAdmin)
		}
		actorRole, err := s.gate.Require(ctx, actor, req.BoardID, models.RoleModerator, "permission.grant")
		if err != nil {
			return err
		}

		current, err := s.repo.Role(ctx, req.BoardID, req.UserID)
		if err != nil {
			return fmt.Errorf("reading current role: %w", err)
		}
		if err := CanGrant(actor, actorRole, req.UserID, current, req.Role); err != nil {
			return models.WithOp("permission.grant", err)
		}

		if err := s.repo.Set(ctx, models.Permission{BoardID: req.BoardID, UserID: req.UserID, Role: req.Role}); err != nil {
			return fmt.Errorf("failed to grant role: %w", err)
		}
		s.logger.Info("role granted",
			"board_id", req.BoardID,
			"user_id", req.UserID,
			"role", req.Role,
			"by", actor.UserID)
		return nil
	})
}

// Revoke removes another user's permission row, subject to the grant rules
func (s *service) Revoke(ctx context.Context, actor identity.Actor, boardID types.BoardID, user types.UserID) error {
	if boardID <= 0 {
		return ErrInvalidBoardID
	}

	return s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		if user.IsTemplate() && !actor.Admin {
			return models.WithOp("permission.revoke", ErrTemplateAdmin)
		}
		actorRole, err := s.gate.Require(ctx, actor, boardID, models.RoleModerator, "permission.revoke")
		if err != nil {
			return err
		}

		current, err := s.repo.Role(ctx, boardID, user)
		if err != nil {
			return fmt.Errorf("reading current role: %w", err)
		}
		if current == models.RoleNone {
			return models.NotFound(fmt.Sprintf("user %d has no role on board %d", user, boardID))
		}
		if err := CanGrant(actor, actorRole, user, current, models.RoleNone); err != nil {
			return models.WithOp("permission.revoke", err)
		}

		if err := s.repo.Delete(ctx, boardID, user); err != nil {
			return fmt.Errorf("failed to revoke role: %w", err)
		}
		s.logger.Info("role revoked", "board_id", boardID, "user_id", user, "by", actor.UserID)
		return nil
	})
}

// SetOwner records user as owner of a board. It is not gated: callers use it
// while creating the board.
func (s *service) SetOwner(ctx context.Context, boardID types.BoardID, user types.UserID) error {
	if boardID <= 0 {
		return ErrInvalidBoardID
	}
	return s.repo.Set(ctx, models.Permission{BoardID: boardID, UserID: user, Role: models.RoleOwner})
}

// ApplyTemplates copies every row of template onto user, returning how many
// boards were affected. Existing rows of user are left alone.
func (s *service) ApplyTemplates(ctx context.Context, template, user types.UserID) (int, error) {
	if !template.IsTemplate() {
		return 0, models.Validation(fmt.Sprintf("user %d is not a template", template))
	}
	if user.IsTemplate() {
		return 0, models.Validation("templates cannot be applied to another template")
	}

	applied := 0
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		rows, err := s.repo.ListTemplates(ctx, template)
		if err != nil {
			return err
		}
		for _, row := range rows {
			current, err := s.repo.Role(ctx, row.BoardID, user)
			if err != nil {
				return err
			}
			if current != models.RoleNone {
				continue
			}
			if err := s.repo.Set(ctx, models.Permission{BoardID: row.BoardID, UserID: user, Role: row.Role}); err != nil {
				return fmt.Errorf("applying template on board %d: %w", row.BoardID, err)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}
