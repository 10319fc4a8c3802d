// Package system holds maintenance and session commands that are not tied
// to one kind of board object
package system

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long: `Create or upgrade the schema of the configured database.
Migrations are idempotent and also run whenever the database is opened.`,
		RunE: handler.Anonymous(runMigrate),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runMigrate(ctx context.Context, s *handler.Session, _ []string) error {
	db := s.CLI.App.DB()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	if s.Formatter.Quiet {
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("schema", map[string]any{
			"dialect": string(db.Dialect()),
		})
	}

	fmt.Printf("✓ Schema up to date (%s)\n", db.Dialect())
	return nil
}
