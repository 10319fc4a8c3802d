package cardlist

import "github.com/thenoetrevino/kanban/internal/models"

// Card list errors
var (
	// Validation errors
	ErrEmptyName      = models.Validation("name cannot be empty")
	ErrNameTooLong    = models.Validation("name cannot exceed 50 characters")
	ErrInvalidListID  = models.Validation("invalid list ID")
	ErrInvalidBoardID = models.Validation("invalid board ID")
	ErrAnchorAndTail  = models.Validation("an anchor list cannot be combined with append")

	// Business logic errors
	ErrListHasCards   = models.Validation("cannot delete a list that still holds cards")
	ErrListNotOnBoard = models.NotFound("list is not on the given board")
)
