package list

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/types"
)

// DeleteCmd returns the list delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [list-id]",
		Short: "Delete an empty list",
		Long:  "Delete a list. The list must have no cards; move or delete them first.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runDelete),
	}

	cmd.Flags().Int64("id", 0, "List ID (can also be provided as positional argument)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}

	l, err := s.CLI.App.DeleteList(ctx, s.Actor, types.CardListID(id))
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("list", cli.ListJSON(l))
	}

	fmt.Printf("✓ List %d ('%s') deleted successfully\n", l.ID, l.Name)
	return nil
}
