// Package use holds all cli commands related to setting contextual information
// e.g., kanban use ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage contextual settings for the current shell",
		Long: `Set and manage contextual information for the current shell session.

The 'use' command allows you to set persistent context that applies to
subsequent commands, eliminating the need to repeatedly specify flags.

Examples:
  eval $(kanban use board 3 --user=1)   # Use board 3
  eval $(kanban use board --clear)      # Clear board context
  kanban use board --show               # Show current board`,
	}

	cmd.AddCommand(BoardCmd())

	return cmd
}
