// Package identity carries the caller of a gated operation. The core never
// authenticates: it receives an Actor resolved by a provider and passes it
// explicitly to every permission check.
package identity

import "github.com/thenoetrevino/kanban/internal/types"

// Actor is the resolved caller of an operation
type Actor struct {
	UserID types.UserID
	Admin  bool
}
