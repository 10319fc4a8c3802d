package models

import (
	"time"

	"github.com/thenoetrevino/kanban/internal/types"
)

// Attachment is the metadata row for a file attached to a card. File
// contents are held by an external storage service.
type Attachment struct {
	ID        types.AttachmentID
	CardID    types.CardID
	BoardID   types.BoardID
	Name      string
	CreatedAt time.Time
}
