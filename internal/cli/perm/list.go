package perm

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// ListCmd returns the perm list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the roles on a board",
		RunE:    handler.Command(runList),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(ctx context.Context, s *handler.Session, _ []string) error {
	boardID, err := s.Flags.ParseBoardID()
	if err != nil {
		return err
	}

	perms, err := s.CLI.App.Permissions(ctx, s.Actor, boardID)
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		for _, p := range perms {
			fmt.Printf("%d\n", p.UserID)
		}
		return nil
	}

	if s.Formatter.JSON {
		out := make([]map[string]any, 0, len(perms))
		for _, p := range perms {
			out = append(out, map[string]any{
				"board_id": p.BoardID,
				"user_id":  p.UserID,
				"role":     p.Role.String(),
				"template": p.UserID.IsTemplate(),
			})
		}
		return s.Formatter.Success("permissions", out)
	}

	if len(perms) == 0 {
		fmt.Printf("No roles on board %d\n", boardID)
		return nil
	}

	fmt.Printf("Roles on board %d:\n", boardID)
	for _, p := range perms {
		suffix := ""
		if p.UserID.IsTemplate() {
			suffix = " (template)"
		}
		fmt.Printf("  user %d: %s%s\n", p.UserID, p.Role, suffix)
	}
	return nil
}
