package card

import "github.com/thenoetrevino/kanban/internal/models"

// Card-related errors
var (
	// Validation errors
	ErrEmptyTitle     = models.Validation("card title cannot be empty")
	ErrTitleTooLong   = models.Validation("card title cannot exceed 255 characters")
	ErrInvalidCardID  = models.Validation("invalid card ID")
	ErrInvalidListID  = models.Validation("invalid list ID")
	ErrAnchorAndTail  = models.Validation("an anchor card cannot be combined with append")
	ErrCoverNotOnCard = models.Validation("cover attachment does not belong to the card")

	// Business logic errors
	ErrCardNotInList = models.NotFound("card is not in the given list")
)
