package types

import "strconv"

// Distinct id types keep a card id from being passed where a list id is
// expected. The zero value of every id is the "no row" sentinel used by the
// prev/next chain columns.

// BoardID identifies a board
type BoardID int64

// CardListID identifies a card list within a board
type CardListID int64

// CardID identifies a card within a card list
type CardID int64

// UserID identifies a user. Negative values are permission templates.
type UserID int64

// AttachmentID identifies attachment metadata owned by a card
type AttachmentID int64

func (id BoardID) Int64() int64      { return int64(id) }
func (id CardListID) Int64() int64   { return int64(id) }
func (id CardID) Int64() int64       { return int64(id) }
func (id UserID) Int64() int64       { return int64(id) }
func (id AttachmentID) Int64() int64 { return int64(id) }

func (id BoardID) IsZero() bool      { return id == 0 }
func (id CardListID) IsZero() bool   { return id == 0 }
func (id CardID) IsZero() bool       { return id == 0 }
func (id AttachmentID) IsZero() bool { return id == 0 }

// IsTemplate reports whether the id names a permission template rather than
// a real user.
func (id UserID) IsTemplate() bool { return id < 0 }

func (id BoardID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id CardListID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id CardID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id UserID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id AttachmentID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseBoardID parses a decimal board id
func ParseBoardID(s string) (BoardID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	return BoardID(v), err
}

// ParseCardListID parses a decimal card list id
func ParseCardListID(s string) (CardListID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	return CardListID(v), err
}

// ParseCardID parses a decimal card id
func ParseCardID(s string) (CardID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	return CardID(v), err
}

// ParseUserID parses a decimal user id, accepting negative template ids
func ParseUserID(s string) (UserID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	return UserID(v), err
}
