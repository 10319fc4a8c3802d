package card

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	cardservice "github.com/thenoetrevino/kanban/internal/services/card"
	"github.com/thenoetrevino/kanban/internal/types"
)

// MoveCmd returns the card move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [id]",
		Short: "Reorder a card or move it to another list",
		Long: `Move a card after another card, or to the top with --after=0.
With --to-list the card moves to that list, which may be on another board;
the member role is then needed on both boards.

Examples:
  kanban card move 12 --list=2 --after=9
  kanban card move 12 --list=2 --to-list=3
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runMove),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	cmd.Flags().Int64("list", 0, "List the card is in (required)")
	cmd.Flags().Int64("to-list", 0, "Destination list (default: same list)")
	cmd.Flags().Int64("after", 0, "Place after this card (0 = top)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}
	from, err := s.Flags.ParseID("list")
	if err != nil {
		return err
	}
	to, err := s.Flags.ParseIDOptional("to-list")
	if err != nil {
		return err
	}
	after, err := s.Flags.ParseIDOptional("after")
	if err != nil {
		return err
	}

	c, err := s.CLI.App.MoveCard(ctx, s.Actor, cardservice.MoveCardRequest{
		CardID:     types.CardID(id),
		FromListID: types.CardListID(from),
		ToListID:   types.CardListID(to),
		AfterID:    types.CardID(after),
	})
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		fmt.Printf("%d\n", c.ID)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("card", cli.CardJSON(c))
	}

	fmt.Printf("✓ Card '%s' moved to list %d\n", c.Title, c.ListID)
	return nil
}
