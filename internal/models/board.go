package models

import (
	"time"

	"github.com/thenoetrevino/kanban/internal/types"
)

// Board is the top-level container. Card lists belong to exactly one board.
type Board struct {
	ID        types.BoardID
	Name      string
	CreatedAt time.Time
}

// BoardView is a board with its lists and cards in display order
type BoardView struct {
	Board *Board
	Lists []*ListView
}

// ListView is one card list with its cards in display order
type ListView struct {
	List  *CardList
	Cards []*Card
}
