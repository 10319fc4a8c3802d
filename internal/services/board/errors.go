package board

import "github.com/thenoetrevino/kanban/internal/models"

// Board-related errors
var (
	ErrEmptyName      = models.Validation("board name cannot be empty")
	ErrNameTooLong    = models.Validation("board name cannot exceed 100 characters")
	ErrInvalidBoardID = models.Validation("invalid board ID")
)
