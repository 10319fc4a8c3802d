package board

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

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [board-id]",
		Short: "Show a board with its lists and cards",
		Long: `Display a board with every list and card in display order.

The board can be given as an argument, with --board, or through KANBAN_BOARD.`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runShow),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(ctx context.Context, s *handler.Session, args []string) error {
	id, err := boardArg(s, args)
	if err != nil {
		return err
	}

	view, err := s.CLI.App.BoardView(ctx, s.Actor, id)
	if err != nil {
		return err
	}

	if s.Formatter.Quiet {
		for _, lv := range view.Lists {
			fmt.Printf("%d\n", lv.List.ID)
		}
		return nil
	}
	if s.Formatter.JSON {
		return s.Formatter.Success("board", cli.BoardViewJSON(view))
	}

	fmt.Print(renderView(view))
	return nil
}

// boardArg takes the board from the positional argument or the usual flags
func boardArg(s *handler.Session, args []string) (types.BoardID, error) {
	if len(args) > 0 {
		id, err := s.Flags.ParseIDArg(args, "board")
		return types.BoardID(id), err
	}
	return s.Flags.ParseBoardID()
}

func renderView(view *models.BoardView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styles.TitleStyle.Render(view.Board.Name),
		styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", view.Board.ID)))

	if len(view.Lists) == 0 {
		b.WriteString("\nNo lists on this board\n")
		return b.String()
	}

	for _, lv := range view.Lists {
		fmt.Fprintf(&b, "\n%s %s\n", styles.SectionStyle.Render(lv.List.Name),
			styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d, %d cards)", lv.List.ID, len(lv.Cards))))
		for _, c := range lv.Cards {
			line := fmt.Sprintf("  • [%d] %s", c.ID, c.Title)
			if chips := styles.RenderLabelChips(c.LabelMask); chips != "" {
				line += " " + chips
			}
			if flags := styles.RenderFlags(c.Flags); flags != "" {
				line += " " + flags
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
