package card

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/types"
)

// RenameCmd returns the card rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [id]",
		Short: "Change a card title",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runRename),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	cmd.Flags().String("title", "", "New title (required)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRename(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}
	title, err := s.Flags.ParseString("title")
	if err != nil {
		return err
	}

	c, err := s.CLI.App.RenameCard(ctx, s.Actor, types.CardID(id), title)
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

	fmt.Printf("✓ Card %d renamed to '%s'\n", c.ID, c.Title)
	return nil
}
