package models

import (
	"strings"
	"time"

	"github.com/thenoetrevino/kanban/internal/types"
)

// LabelMask is a bitset of board label slots applied to a card
type LabelMask uint64

// Has reports whether label slot n (0-based) is set
func (m LabelMask) Has(n uint) bool { return n < 64 && m&(1<<n) != 0 }

// With returns the mask with slot n set
func (m LabelMask) With(n uint) LabelMask {
	if n >= 64 {
		return m
	}
	return m | 1<<n
}

// Without returns the mask with slot n cleared
func (m LabelMask) Without(n uint) LabelMask {
	if n >= 64 {
		return m
	}
	return m &^ (1 << n)
}

// Slots lists the set label slots in ascending order
func (m LabelMask) Slots() []uint {
	var out []uint
	for n := uint(0); n < 64; n++ {
		if m.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// CardFlags is a bitset of card state flags
type CardFlags uint32

const (
	FlagArchived CardFlags = 1 << iota
	FlagLocked
	FlagDone
)

var flagNames = []struct {
	flag CardFlags
	name string
}{
	{FlagArchived, "archived"},
	{FlagLocked, "locked"},
	{FlagDone, "done"},
}

// Has reports whether every bit of f is set
func (c CardFlags) Has(f CardFlags) bool { return c&f == f }

// String renders the set flags as a comma separated list
func (c CardFlags) String() string {
	var names []string
	for _, fn := range flagNames {
		if c.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseCardFlags parses a comma separated list of flag names
func ParseCardFlags(s string) (CardFlags, bool) {
	var out CardFlags
	if strings.TrimSpace(s) == "" {
		return 0, true
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		found := false
		for _, fn := range flagNames {
			if fn.name == part {
				out |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return out, true
}

// Card is a single card. Cards in a list form a doubly-linked chain through
// PrevID and NextID. BoardID is denormalised from the owning list.
type Card struct {
	ID                types.CardID
	BoardID           types.BoardID
	ListID            types.CardListID
	Title             string
	Content           string
	PrevID            types.CardID
	NextID            types.CardID
	CoverAttachmentID types.AttachmentID
	LabelMask         LabelMask
	Flags             CardFlags
	LastMovedTime     time.Time
}

func (c *Card) ChainID() types.CardID   { return c.ID }
func (c *Card) ChainPrev() types.CardID { return c.PrevID }
func (c *Card) ChainNext() types.CardID { return c.NextID }
