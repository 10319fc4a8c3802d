package system

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream change events",
		Long: `Print change events from the Redis channel configured under events until
interrupted. With --board only that board's events are shown and a guest
role on it is required; without it the caller must be an administrator.`,
		RunE: handler.Command(runWatch),
	}

	cmd.Flags().Int64("board", 0, "Only show events of this board")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runWatch(ctx context.Context, s *handler.Session, _ []string) error {
	boardID, err := s.Flags.ParseIDOptional("board")
	if err != nil {
		return err
	}
	if boardID == 0 && !s.Actor.Admin {
		return models.Denied("events.watch", "watching every board requires an administrator")
	}
	if boardID != 0 {
		if _, err := s.CLI.App.Gate().Require(ctx, s.Actor, types.BoardID(boardID), models.RoleGuest, "events.watch"); err != nil {
			return err
		}
	}

	cfg := s.CLI.Config.Events
	if cfg.RedisURL == "" {
		return models.Validation("events.redis_url is not configured")
	}
	sub, err := events.NewRedisPublisher(cfg.RedisURL, cfg.Channel)
	if err != nil {
		return models.Wrap(models.KindConnection, "cannot reach the event channel", err)
	}
	defer func() { _ = sub.Close() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream, err := sub.Subscribe(ctx)
	if err != nil {
		return models.Wrap(models.KindConnection, "cannot subscribe to events", err)
	}

	return printEvents(s, stream, boardID)
}

// printEvents writes events until the stream closes
func printEvents(s *handler.Session, stream <-chan events.Event, boardID int64) error {
	for event := range stream {
		if boardID != 0 && event.BoardID != boardID {
			continue
		}
		switch {
		case s.Formatter.JSON:
			if err := s.Formatter.Success("event", event); err != nil {
				return err
			}
		case s.Formatter.Quiet:
			fmt.Println(event.Type)
		default:
			fmt.Printf("%s  %-18s board=%d entity=%d actor=%d\n",
				event.Timestamp.Local().Format("15:04:05"), event.Type, event.BoardID, event.EntityID, event.ActorID)
		}
	}
	return nil
}
