package list

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/types"
)

// RenameCmd returns the list rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [list-id]",
		Short: "Rename a list",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runRename),
	}

	cmd.Flags().Int64("id", 0, "List ID (can also be provided as positional argument)")
	cmd.Flags().String("name", "", "New list name (required)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRename(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}
	name, err := s.Flags.ParseString("name")
	if err != nil {
		return err
	}

	l, err := s.CLI.App.RenameList(ctx, s.Actor, types.CardListID(id), name)
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

	fmt.Printf("✓ List %d renamed to '%s'\n", l.ID, l.Name)
	return nil
}
