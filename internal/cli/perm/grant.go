package perm

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/services/permission"
)

// GrantCmd returns the perm grant subcommand
func GrantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Give a user a role on a board",
		Long: `Give a user a role on a board, replacing any role they had.
Moderators may grant roles below their own; owners may grant any role.

Examples:
  kanban perm grant --board=1 --target=7 --role=member --user=1
  kanban perm grant --board=1 --target=-1 --role=guest --user=1   # template
`,
		RunE: handler.Command(runGrant),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cmd.Flags().Int64("target", 0, "User receiving the role (required)")
	cmd.Flags().String("role", "", "Role name (required)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runGrant(ctx context.Context, s *handler.Session, _ []string) error {
	boardID, err := s.Flags.ParseBoardID()
	if err != nil {
		return err
	}
	target, err := targetUser(s)
	if err != nil {
		return err
	}
	roleName, err := s.Flags.ParseString("role")
	if err != nil {
		return err
	}
	role, err := cli.ParseRole(roleName)
	if err != nil {
		return err
	}

	req := permission.GrantRequest{BoardID: boardID, UserID: target, Role: role}
	if err := s.CLI.App.Grant(ctx, s.Actor, req); err != nil {
		return err
	}

	if s.Formatter.Quiet {
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("permission", map[string]any{
			"board_id": boardID,
			"user_id":  target,
			"role":     role.String(),
		})
	}

	fmt.Printf("✓ User %d is now %s on board %d\n", target, role, boardID)
	return nil
}
