package perm

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// RegisterCmd returns the perm register subcommand
func RegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register [user-id]",
		Short: "Apply template roles to a new user",
		Long: `Copy every template role row onto a newly registered user.
Only administrators may run it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runRegister),
	}

	cmd.Flags().Int64("target", 0, "User being registered (can also be provided as positional argument)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRegister(ctx context.Context, s *handler.Session, args []string) error {
	if !s.Actor.Admin {
		return models.Denied("user.register", "only administrators can register users")
	}
	id, err := s.Flags.ParseIDArg(args, "target")
	if err != nil {
		return err
	}

	n, err := s.CLI.App.RegisterUser(ctx, types.UserID(id))
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		fmt.Printf("%d\n", n)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("registration", map[string]any{
			"user_id": id,
			"boards":  n,
		})
	}

	fmt.Printf("✓ User %d registered on %d boards\n", id, n)
	return nil
}
