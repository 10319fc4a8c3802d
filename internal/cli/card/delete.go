package card

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/types"
)

// DeleteCmd returns the card delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a card",
		Long:  "Delete a card together with its attachments.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runDelete),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}

	c, err := s.CLI.App.DeleteCard(ctx, s.Actor, types.CardID(id))
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("card", cli.CardJSON(c))
	}

	fmt.Printf("✓ Card %d ('%s') deleted successfully\n", c.ID, c.Title)
	return nil
}
