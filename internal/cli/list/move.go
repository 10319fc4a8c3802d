package list

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	listservice "github.com/thenoetrevino/kanban/internal/services/cardlist"
	"github.com/thenoetrevino/kanban/internal/types"
)

// MoveCmd returns the list move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [list-id]",
		Short: "Reorder a list or move it to another board",
		Long: `Move a list after another list, or to the front with --after=0.
With --to-board the list, its cards and their attachments move to that board.
Moving between boards requires the moderator role on both.

Examples:
  kanban list move 4 --board=1 --after=2
  kanban list move 4 --board=1 --to-board=3 --after=0
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runMove),
	}

	cmd.Flags().Int64("id", 0, "List ID (can also be provided as positional argument)")
	cmd.Flags().Int64("board", 0, "Board the list is on (or KANBAN_BOARD)")
	cmd.Flags().Int64("to-board", 0, "Destination board (default: same board)")
	cmd.Flags().Int64("after", 0, "Place after this list (0 = first)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}
	from, err := s.Flags.ParseBoardID()
	if err != nil {
		return err
	}
	to, err := s.Flags.ParseIDOptional("to-board")
	if err != nil {
		return err
	}
	after, err := s.Flags.ParseIDOptional("after")
	if err != nil {
		return err
	}

	l, err := s.CLI.App.MoveList(ctx, s.Actor, listservice.MoveListRequest{
		ListID:      types.CardListID(id),
		FromBoardID: from,
		ToBoardID:   types.BoardID(to),
		AfterID:     types.CardListID(after),
	})
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		fmt.Printf("%d\n", l.ID)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("list", cli.ListJSON(l))
	}

	if l.BoardID != from {
		fmt.Printf("✓ List '%s' moved to board %d\n", l.Name, l.BoardID)
		return nil
	}
	fmt.Printf("✓ List '%s' moved\n", l.Name)
	return nil
}
