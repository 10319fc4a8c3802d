// Package list holds all cli commands related to card lists
//
// e.g., kanban list ...
package list

import (
	"github.com/spf13/cobra"
)

// ListCmd returns the list parent command
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the lists on a board",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
