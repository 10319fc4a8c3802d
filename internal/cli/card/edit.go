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

// EditCmd returns the card edit subcommand
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Update card fields",
		Long: `Update the fields of a card. Only flags that are given are changed.

Examples:
  kanban card edit 12 --content=- < notes.md
  kanban card edit 12 --labels=1,2 --flags=done
  kanban card edit 12 --cover=5
  kanban card edit 12 --cover=0      # clear the cover
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runEdit),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("content", "", "Markdown content, or - to read stdin")
	cmd.Flags().String("labels", "", "Comma separated label slots (empty clears)")
	cmd.Flags().String("flags", "", "Comma separated flags (empty clears)")
	cmd.Flags().Int64("cover", 0, "Cover attachment ID (0 clears)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runEdit(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}

	req := cardservice.UpdateCardRequest{CardID: types.CardID(id)}
	if s.Flags.Changed("title") {
		title, _ := s.Flags.ParseStringOptional("title")
		req.Title = &title
	}
	if s.Flags.Changed("content") {
		raw, _ := s.Flags.ParseStringOptional("content")
		content, err := cli.ReadContent(raw, os.Stdin)
		if err != nil {
			return err
		}
		req.Content = &content
	}
	if s.Flags.Changed("labels") {
		raw, _ := s.Flags.ParseStringOptional("labels")
		labels, err := cli.ParseLabels(raw)
		if err != nil {
			return err
		}
		req.LabelMask = &labels
	}
	if s.Flags.Changed("flags") {
		raw, _ := s.Flags.ParseStringOptional("flags")
		flags, err := cli.ParseFlags(raw)
		if err != nil {
			return err
		}
		req.Flags = &flags
	}
	if s.Flags.Changed("cover") {
		raw, err := s.Flags.ParseIDOptional("cover")
		if err != nil {
			return err
		}
		cover := types.AttachmentID(raw)
		req.CoverAttachmentID = &cover
	}

	if req.Title == nil && req.Content == nil && req.LabelMask == nil && req.Flags == nil && req.CoverAttachmentID == nil {
		return fmt.Errorf("%w: nothing to update, pass at least one of --title, --content, --labels, --flags, --cover", cli.ErrUsage)
	}

	c, err := s.CLI.App.UpdateCard(ctx, s.Actor, req)
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

	fmt.Printf("✓ Card %d updated\n", c.ID)
	return nil
}
