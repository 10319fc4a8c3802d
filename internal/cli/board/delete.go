package board

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// DeleteCmd returns the board delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [board-id]",
		Short: "Delete a board",
		Long: `Delete a board with all of its lists, cards, attachments and permissions.
Requires the owner role. Asks for confirmation unless --force, --quiet or --json is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runDelete),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(ctx context.Context, s *handler.Session, args []string) error {
	id, err := boardArg(s, args)
	if err != nil {
		return err
	}
	force, _ := s.Flags.ParseBool("force")

	if !force && !s.Formatter.Quiet && !s.Formatter.JSON {
		view, err := s.CLI.App.BoardView(ctx, s.Actor, id)
		if err != nil {
			return err
		}
		if !cli.Confirm(os.Stdin, fmt.Sprintf("Delete board #%d '%s' and its %d lists?", id, view.Board.Name, len(view.Lists))) {
			fmt.Println("Cancelled")
			return nil
		}
	}

	b, err := s.CLI.App.DeleteBoard(ctx, s.Actor, id)
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("board", cli.BoardJSON(b))
	}

	fmt.Printf("✓ Board %d ('%s') deleted successfully\n", b.ID, b.Name)
	return nil
}
