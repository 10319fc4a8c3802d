package perm

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// RevokeCmd returns the perm revoke subcommand
func RevokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Remove a user's role on a board",
		RunE:  handler.Command(runRevoke),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cmd.Flags().Int64("target", 0, "User losing the role (required)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRevoke(ctx context.Context, s *handler.Session, _ []string) error {
	boardID, err := s.Flags.ParseBoardID()
	if err != nil {
		return err
	}
	target, err := targetUser(s)
	if err != nil {
		return err
	}

	if err := s.CLI.App.Revoke(ctx, s.Actor, boardID, target); err != nil {
		return err
	}

	if s.Formatter.Quiet {
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("permission", map[string]any{
			"board_id": boardID,
			"user_id":  target,
			"role":     "none",
		})
	}

	fmt.Printf("✓ User %d no longer has a role on board %d\n", target, boardID)
	return nil
}
