package system

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/types"
)

// TokenCmd returns the token command
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Issue a bearer token for a user",
		Long: `Sign a bearer token with auth.jwt_secret from the config. Anyone who can
read the config can mint tokens, so keep it private.

Examples:
  export KANBAN_TOKEN=$(kanban token 7 --quiet)
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Anonymous(runToken),
	}

	cmd.Flags().Int64("target", 0, "User the token is for (can also be provided as positional argument)")
	cmd.Flags().Bool("admin", false, "Mark the token holder as an administrator")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runToken(_ context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "target")
	if err != nil {
		return err
	}
	admin, _ := s.Flags.ParseBool("admin")

	auth := s.CLI.Config.Auth
	p, err := identity.NewJWTProvider(auth.JWTSecret, auth.Issuer, auth.Admins)
	if err != nil {
		return err
	}
	token, err := p.Issue(identity.Actor{UserID: types.UserID(id), Admin: admin})
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	if s.Formatter.Quiet {
		fmt.Println(token)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("token", map[string]any{
			"user_id": id,
			"admin":   admin,
			"token":   token,
		})
	}

	fmt.Printf("Token for user %d:\n%s\n", id, token)
	return nil
}
