package card

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// ShowCmd returns the card show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show card details",
		Long:  "Display all details of a card including its rendered markdown content.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runShow),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(ctx context.Context, s *handler.Session, args []string) error {
	id, err := s.Flags.ParseIDArg(args, "id")
	if err != nil {
		return err
	}

	c, err := s.CLI.App.Card(ctx, s.Actor, types.CardID(id))
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

	fmt.Println(styles.RenderCard(renderCard(c)))
	return nil
}

func renderCard(c *models.Card) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(c.Title))
	b.WriteString(" " + styles.SubtitleStyle.Render(fmt.Sprintf("#%d", c.ID)) + "\n\n")

	field := func(label, value string) {
		b.WriteString(styles.LabelStyle.Render(label) + " " + styles.ValueStyle.Render(value) + "\n")
	}
	field("Board:", c.BoardID.String())
	field("List:", c.ListID.String())
	field("Moved:", c.LastMovedTime.Local().Format("2006-01-02 15:04"))
	if chips := styles.RenderLabelChips(c.LabelMask); chips != "" {
		b.WriteString(styles.LabelStyle.Render("Labels:") + " " + chips + "\n")
	}
	if flags := styles.RenderFlags(c.Flags); flags != "" {
		b.WriteString(styles.LabelStyle.Render("Flags:") + " " + flags + "\n")
	}
	if !c.CoverAttachmentID.IsZero() {
		field("Cover:", fmt.Sprintf("attachment %d", c.CoverAttachmentID))
	}

	b.WriteString(styles.SectionStyle.Render("Content") + "\n")
	b.WriteString(styles.RenderMarkdown(c.Content, styles.CardWidth-6))
	return b.String()
}
