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

// AddCmd returns the list add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a list to a board",
		Long: `Add a list to a board. Without --after the list becomes the first one;
with --end it goes after the current last list.

Examples:
  kanban list add --board=1 --name="Todo" --end
  kanban list add --board=1 --name="Doing" --after=4 --quiet
`,
		RunE: handler.Command(runAdd),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cmd.Flags().String("name", "", "List name (required)")
	cmd.Flags().Int64("after", 0, "Insert after this list (0 = first)")
	cmd.Flags().Bool("end", false, "Insert after the last list")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(ctx context.Context, s *handler.Session, _ []string) error {
	boardID, err := s.Flags.ParseBoardID()
	if err != nil {
		return err
	}
	name, err := s.Flags.ParseString("name")
	if err != nil {
		return err
	}
	after, err := s.Flags.ParseIDOptional("after")
	if err != nil {
		return err
	}
	end, _ := s.Flags.ParseBool("end")

	l, err := s.CLI.App.AddList(ctx, s.Actor, listservice.CreateListRequest{
		BoardID: boardID,
		AfterID: types.CardListID(after),
		Append:  end,
		Name:    name,
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

	fmt.Printf("✓ List '%s' added to board %d (ID: %d)\n", l.Name, l.BoardID, l.ID)
	return nil
}
