package board

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// ListCmd returns the board list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List boards you can see",
		Long:    "List the boards the caller holds a role on. Administrators see every board.",
		RunE:    handler.Command(runList),
	}

	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(ctx context.Context, s *handler.Session, _ []string) error {
	boards, err := s.CLI.App.Boards(ctx, s.Actor)
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		for _, b := range boards {
			fmt.Printf("%d\n", b.ID)
		}
		return nil
	}

	if s.Formatter.JSON {
		out := make([]map[string]any, 0, len(boards))
		for _, b := range boards {
			out = append(out, cli.BoardJSON(b))
		}
		return s.Formatter.Success("boards", out)
	}

	if len(boards) == 0 {
		fmt.Println("No boards found")
		return nil
	}

	fmt.Printf("Found %d boards:\n\n", len(boards))
	for _, b := range boards {
		fmt.Printf("  [%d] %s\n", b.ID, b.Name)
	}
	return nil
}
