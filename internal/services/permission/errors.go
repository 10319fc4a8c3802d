package permission

import "github.com/thenoetrevino/kanban/internal/models"

// Permission-related errors
var (
	// Validation errors
	ErrInvalidBoardID = models.Validation("invalid board ID")
	ErrInvalidRole    = models.Validation("invalid role")

	// Grant rules
	ErrSelfModify       = models.Denied("", "cannot modify your own permission")
	ErrRoleTooHigh      = models.Denied("", "cannot grant a role equal to or above your own")
	ErrTargetOutranks   = models.Denied("", "cannot modify a user whose role is equal to or above your own")
	ErrTemplateAdmin    = models.Denied("", "only administrators may edit permission templates")
	ErrInsufficientRole = models.Denied("", "insufficient role")
)
