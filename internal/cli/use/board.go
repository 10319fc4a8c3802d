package use

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/types"
)

// BoardCmd returns the use board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [board-id]",
		Short: "Set board context for current shell session",
		Long: `Set the current board context using environment variables.
This command outputs shell commands that should be evaluated:

  eval $(kanban use board 3 --user=1)     # Use board 3
  eval $(kanban use board --clear)        # Clear board context
  kanban use board --show                 # Show current board

The KANBAN_BOARD environment variable will be set in your current shell
session only. The --board flag on other commands takes precedence over
this environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseBoard,
	}

	cmd.Flags().Bool("clear", false, "Clear the current board context")
	cmd.Flags().Bool("show", false, "Show the current board context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without outputting shell commands")
	cli.AddActorFlags(cmd)

	return cmd
}

func runUseBoard(cmd *cobra.Command, args []string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")

	if showFlag {
		return showCurrentBoard()
	}

	if clearFlag {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			fmt.Fprintf(os.Stderr, "Would clear KANBAN_BOARD\n")
			return nil
		}
		fmt.Println("unset KANBAN_BOARD")
		fmt.Fprintf(os.Stderr, "Cleared board context\n")
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("%w: board ID required\nUsage: eval $(kanban use board <board-id>)", cli.ErrUsage)
	}

	return handler.Command(exportBoard)(cmd, args)
}

// exportBoard checks that the caller can see the board before exporting it
func exportBoard(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "board")
	if err != nil {
		return err
	}

	view, err := s.CLI.App.BoardView(ctx, s.Actor, types.BoardID(id))
	if err != nil {
		return err
	}

	dryRun, _ := s.Flags.ParseBool("dry-run")
	if dryRun {
		fmt.Fprintf(os.Stderr, "Would set KANBAN_BOARD=%d (%s)\n", id, view.Board.Name)
		return nil
	}

	// Shell export goes to stdout for eval
	fmt.Printf("export KANBAN_BOARD=%d\n", id)
	fmt.Fprintf(os.Stderr, "Now using board %d: %s\n", id, view.Board.Name)
	return nil
}

func showCurrentBoard() error {
	current := os.Getenv("KANBAN_BOARD")
	if current == "" {
		fmt.Println("No board context set")
		fmt.Println("Use 'eval $(kanban use board <board-id>)' to set one")
		return nil
	}

	id, err := types.ParseBoardID(current)
	if err != nil {
		fmt.Printf("Invalid board context: %s\n", current)
		return nil
	}

	fmt.Printf("Current board: %d\n", id)
	return nil
}
