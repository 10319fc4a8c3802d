// Package perm holds all cli commands related to board permissions
//
// e.g., kanban perm ...
package perm

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/types"
)

// PermCmd returns the perm parent command
func PermCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perm",
		Short: "Manage board roles",
		Long: `Grant, revoke and list board roles.

Roles from most to least privileged: owner, moderator, member, observer,
guest, blocked. Negative user IDs are templates copied onto newly
registered users.`,
	}

	cmd.AddCommand(GrantCmd())
	cmd.AddCommand(RevokeCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(RegisterCmd())

	return cmd
}

// targetUser reads --target, which may be negative for template rows
func targetUser(s *handler.Session) (types.UserID, error) {
	id, err := s.GetCmd().Flags().GetInt64("target")
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: --target is required", cli.ErrUsage)
	}
	return types.UserID(id), nil
}
