// Package handler provides command execution abstraction to reduce boilerplate
package handler

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/identity"
)

// Session is what a command body works with: the opened CLI, the resolved
// caller and the output formatter
type Session struct {
	CLI       *cli.CLI
	Actor     identity.Actor
	Formatter *cli.OutputFormatter
	Flags     *FlagParser
	cmd       *cobra.Command
}

// GetCmd returns the cobra command for access to flag parsing utilities
func (s *Session) GetCmd() *cobra.Command {
	return s.cmd
}

// Func is the body of a command
type Func func(ctx context.Context, s *Session, args []string) error

// Command wraps common command execution logic: the CLI is opened from the
// command context, the actor is resolved and any error is reported once in
// the requested output mode before being returned to cobra.
func Command(fn Func) func(*cobra.Command, []string) error {
	return run(fn, true)
}

// Anonymous is Command without actor resolution, for commands that are not
// gated such as migrate
func Anonymous(fn Func) func(*cobra.Command, []string) error {
	return run(fn, false)
}

func run(fn Func, needActor bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		formatter := cli.FormatterFor(cmd)

		cliInstance, err := cli.GetCLIFromContext(ctx)
		if err != nil {
			return formatter.Fail(err)
		}
		defer func() {
			if err := cliInstance.Close(); err != nil {
				slog.Error("Error closing CLI", "error", err)
			}
		}()

		s := &Session{
			CLI:       cliInstance,
			Formatter: formatter,
			Flags:     NewFlagParser(cmd),
			cmd:       cmd,
		}
		if needActor {
			s.Actor, err = cliInstance.Actor(cmd)
			if err != nil {
				return formatter.Fail(err)
			}
		}

		if err := fn(ctx, s, args); err != nil {
			if cli.IsReported(err) {
				return err
			}
			return formatter.Fail(err)
		}
		return nil
	}
}
