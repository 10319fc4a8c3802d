package system

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/user"
)

// WhoamiCmd returns the whoami command
func WhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the user commands act as",
		RunE:  handler.Command(runWhoami),
	}

	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runWhoami(ctx context.Context, s *handler.Session, _ []string) error {
	boards, err := s.CLI.App.Boards(ctx, s.Actor)
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		fmt.Printf("%d\n", s.Actor.UserID)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("actor", map[string]any{
			"user_id": s.Actor.UserID,
			"admin":   s.Actor.Admin,
			"boards":  len(boards),
			"os_user": user.GetCurrentUsername(),
		})
	}

	role := "user"
	if s.Actor.Admin {
		role = "administrator"
	}
	fmt.Printf("User %d (%s), %d boards visible, running as %s\n",
		s.Actor.UserID, role, len(boards), user.GetCurrentUsername())
	return nil
}
