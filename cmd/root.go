// Package cmd assembles the kanban command tree
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/board"
	"github.com/thenoetrevino/kanban/internal/cli/card"
	"github.com/thenoetrevino/kanban/internal/cli/list"
	"github.com/thenoetrevino/kanban/internal/cli/perm"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/cli/system"
	"github.com/thenoetrevino/kanban/internal/cli/use"
	"github.com/thenoetrevino/kanban/internal/cli/verify"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/logging"
)

// NewRootCmd builds the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kanban",
		Short: "Kanban - boards, lists and cards from the terminal",
		Long: `Kanban manages boards of ordered card lists with per-board roles.

Every command that reads or changes a board acts as a user, given with
--user, --token, KANBAN_USER or KANBAN_TOKEN.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	})

	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(list.ListCmd())
	rootCmd.AddCommand(card.CardCmd())
	rootCmd.AddCommand(perm.PermCmd())
	rootCmd.AddCommand(verify.VerifyCmd())
	rootCmd.AddCommand(use.UseCmd())
	rootCmd.AddCommand(system.MigrateCmd())
	rootCmd.AddCommand(system.TokenCmd())
	rootCmd.AddCommand(system.WatchCmd())
	rootCmd.AddCommand(system.WhoamiCmd())

	return rootCmd
}

// setup loads the config once per invocation to configure logging and
// output styles. A broken config falls back to defaults here; commands
// that open the database report it properly.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}
	if err := logging.Init(cfg.Log); err != nil {
		slog.Warn("logging setup failed", "error", err)
	}
	styles.Init(cfg.Theme)
	return nil
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	err := NewRootCmd().Execute()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
	}
	return cli.ExitCodeFor(err)
}
