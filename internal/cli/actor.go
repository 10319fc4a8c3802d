package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// ErrNoActor is returned when a gated command runs without a user
var ErrNoActor = models.Validation("no user given: pass --user or --token, or set KANBAN_USER or KANBAN_TOKEN")

// AddActorFlags registers the flags used to identify the caller
func AddActorFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("user", 0, "Acting user ID (or KANBAN_USER)")
	cmd.Flags().String("token", "", "Bearer token (or KANBAN_TOKEN)")
}

// AddOutputFlags registers the agent-friendly output flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

// Actor resolves the caller. A token wins over a plain user id; plain ids
// are admins only when listed under auth.admins in the config.
func (c *CLI) Actor(cmd *cobra.Command) (identity.Actor, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("KANBAN_TOKEN")
	}
	if token != "" {
		p, err := identity.NewJWTProvider(c.Config.Auth.JWTSecret, c.Config.Auth.Issuer, c.Config.Auth.Admins)
		if err != nil {
			return identity.Actor{}, err
		}
		return p.Resolve(token)
	}

	user, _ := cmd.Flags().GetInt64("user")
	if user == 0 {
		if env := os.Getenv("KANBAN_USER"); env != "" {
			parsed, err := strconv.ParseInt(env, 10, 64)
			if err != nil {
				return identity.Actor{}, models.Validation(fmt.Sprintf("invalid KANBAN_USER: %s", env))
			}
			user = parsed
		}
	}
	if user <= 0 {
		return identity.Actor{}, ErrNoActor
	}
	return identity.Actor{
		UserID: types.UserID(user),
		Admin:  slices.Contains(c.Config.Auth.Admins, user),
	}, nil
}

// GetBoardID returns the --board flag, falling back to KANBAN_BOARD
func GetBoardID(cmd *cobra.Command) (types.BoardID, error) {
	if cmd.Flags().Changed("board") {
		id, _ := cmd.Flags().GetInt64("board")
		if id <= 0 {
			return 0, models.Validation("board ID must be positive")
		}
		return types.BoardID(id), nil
	}

	if env := os.Getenv("KANBAN_BOARD"); env != "" {
		id, err := types.ParseBoardID(env)
		if err != nil || id <= 0 {
			return 0, models.Validation(fmt.Sprintf("invalid KANBAN_BOARD: %s", env))
		}
		return id, nil
	}

	return 0, models.Validation("no board specified: use --board or set KANBAN_BOARD")
}
