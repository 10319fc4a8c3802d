package models

import "github.com/thenoetrevino/kanban/internal/types"

// CardList is a column on a board. Lists on a board form a doubly-linked
// chain through PrevID and NextID, with 0 marking the head and the tail.
type CardList struct {
	ID      types.CardListID
	BoardID types.BoardID
	Name    string
	PrevID  types.CardListID
	NextID  types.CardListID
}

func (l *CardList) ChainID() types.CardListID   { return l.ID }
func (l *CardList) ChainPrev() types.CardListID { return l.PrevID }
func (l *CardList) ChainNext() types.CardListID { return l.NextID }

// IsHead reports whether the list is first on its board
func (l *CardList) IsHead() bool { return l.PrevID == 0 }

// IsTail reports whether the list is last on its board
func (l *CardList) IsTail() bool { return l.NextID == 0 }
