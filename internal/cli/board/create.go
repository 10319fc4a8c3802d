package board

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// CreateCmd returns the board create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new board",
		Long: `Create a new board. The caller becomes its owner.

Examples:
  # Simple board (human-readable output)
  kanban board create --name="Roadmap" --user=1

  # JSON output for agents
  kanban board create --name="Roadmap" --json

  # Quiet mode for bash capture
  BOARD_ID=$(kanban board create --name="Roadmap" --quiet)
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("name", "", "Board name (required)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(ctx context.Context, s *handler.Session, _ []string) error {
	name, err := s.Flags.ParseString("name")
	if err != nil {
		return err
	}

	b, err := s.CLI.App.CreateBoard(ctx, s.Actor, name)
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

	fmt.Printf("✓ Board '%s' created successfully (ID: %d)\n", b.Name, b.ID)
	return nil
}
