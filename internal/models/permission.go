package models

import (
	"fmt"
	"strings"

	"github.com/thenoetrevino/kanban/internal/types"
)

// Role is a board role ordinal. Smaller values carry more privilege, so a
// caller passes a check when its ordinal is less than or equal to the
// required one.
type Role int

const (
	RoleOwner     Role = 0
	RoleModerator Role = 2
	RoleMember    Role = 6
	RoleObserver  Role = 8
	RoleGuest     Role = 9
	RoleBlocked   Role = 10
	RoleNone      Role = 11 // no permission row
)

var roleNames = map[Role]string{
	RoleOwner:     "owner",
	RoleModerator: "moderator",
	RoleMember:    "member",
	RoleObserver:  "observer",
	RoleGuest:     "guest",
	RoleBlocked:   "blocked",
	RoleNone:      "none",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Valid reports whether r is one of the defined roles
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Satisfies reports whether r grants at least the privilege of required
func (r Role) Satisfies(required Role) bool {
	return r <= required
}

// ParseRole maps a role name to its ordinal
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleNone, fmt.Errorf("invalid role '%s' (must be: owner, moderator, member, observer, guest, blocked)", s)
}

// Permission binds a user (or a template when UserID is negative) to a role
// on one board.
type Permission struct {
	BoardID types.BoardID
	UserID  types.UserID
	Role    Role
}
