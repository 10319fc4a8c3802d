package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// RenameCmd returns the board rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [board-id]",
		Short: "Rename a board",
		Long:  "Rename a board. Requires the moderator role.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runRename),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cmd.Flags().String("name", "", "New board name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRename(ctx context.Context, s *handler.Session, args []string) error {
	id, err := boardArg(s, args)
	if err != nil {
		return err
	}
	name, err := s.Flags.ParseString("name")
	if err != nil {
		return err
	}

	b, err := s.CLI.App.RenameBoard(ctx, s.Actor, id, name)
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		fmt.Printf("%d\n", b.ID)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("board", cli.BoardJSON(b))
	}

	fmt.Printf("✓ Board %d renamed to '%s'\n", b.ID, b.Name)
	return nil
}
