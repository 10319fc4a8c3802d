package card

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	cardservice "github.com/thenoetrevino/kanban/internal/services/card"
	"github.com/thenoetrevino/kanban/internal/types"
)

// AddCmd returns the card add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to a list",
		Long: `Add a card to a list. Without --after the card goes on top;
with --end it goes to the bottom.

Examples:
  # Simple card
  kanban card add --list=2 --title="Write release notes" --end

  # Markdown content from a file
  kanban card add --list=2 --title="Notes" --content=- < notes.md

  # Labels are slot numbers, flags are names
  kanban card add --list=2 --title="Fix login" --labels=0,3 --flags=locked

  # Quiet mode for bash capture
  CARD_ID=$(kanban card add --list=2 --title="Ship it" --quiet)
`,
		RunE: handler.Command(runAdd),
	}

	cmd.Flags().Int64("list", 0, "List ID (required)")
	cmd.Flags().String("title", "", "Card title (required)")
	cmd.Flags().String("content", "", "Markdown content, or - to read stdin")
	cmd.Flags().String("labels", "", "Comma separated label slots, e.g. 0,3")
	cmd.Flags().String("flags", "", "Comma separated flags: archived, locked, done")
	cmd.Flags().Int64("after", 0, "Insert after this card (0 = top)")
	cmd.Flags().Bool("end", false, "Insert at the bottom of the list")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(ctx context.Context, s *handler.Session, _ []string) error {
	listID, err := s.Flags.ParseID("list")
	if err != nil {
		return err
	}
	title, err := s.Flags.ParseString("title")
	if err != nil {
		return err
	}
	after, err := s.Flags.ParseIDOptional("after")
	if err != nil {
		return err
	}
	end, _ := s.Flags.ParseBool("end")

	raw, _ := s.Flags.ParseStringOptional("content")
	content, err := cli.ReadContent(raw, os.Stdin)
	if err != nil {
		return err
	}
	labelStr, _ := s.Flags.ParseStringOptional("labels")
	labels, err := cli.ParseLabels(labelStr)
	if err != nil {
		return err
	}
	flagStr, _ := s.Flags.ParseStringOptional("flags")
	flags, err := cli.ParseFlags(flagStr)
	if err != nil {
		return err
	}

	c, err := s.CLI.App.AddCard(ctx, s.Actor, cardservice.CreateCardRequest{
		ListID:    types.CardListID(listID),
		AfterID:   types.CardID(after),
		Append:    end,
		Title:     title,
		Content:   content,
		LabelMask: labels,
		Flags:     flags,
	})
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		fmt.Printf("%d\n", c.ID)
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("card", cli.CardJSON(c))
	}

	fmt.Printf("✓ Card '%s' added to list %d (ID: %d)\n", c.Title, c.ListID, c.ID)
	return nil
}
