// Package verify holds the chain health check command
//
// e.g., kanban verify --board=1
package verify

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/chain"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/models"
)

// VerifyCmd returns the verify command
func VerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the list and card chains of a board",
		Long: `Walk the list chain of a board and the card chain of every list on it,
reporting broken links, cycles, extra heads and unreachable rows.
Nothing is repaired. Exits with code 7 when a problem is found.`,
		RunE: handler.Command(runVerify),
	}

	cmd.Flags().Int64("board", 0, "Board ID (or KANBAN_BOARD)")
	cli.AddActorFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runVerify(ctx context.Context, s *handler.Session, _ []string) error {
	boardID, err := s.Flags.ParseBoardID()
	if err != nil {
		return err
	}

	h, err := s.CLI.App.VerifyBoard(ctx, s.Actor, boardID)
	if err != nil {
		return err
	}

	switch {
	case s.Formatter.Quiet:
	case s.Formatter.JSON:
		cards := make([]map[string]any, 0, len(h.Cards))
		for _, r := range h.Cards {
			cards = append(cards, cli.ReportJSON(r))
		}
		if err := s.Formatter.Success("health", map[string]any{
			"board_id": h.BoardID,
			"ok":       h.OK(),
			"lists":    cli.ReportJSON(h.Lists),
			"cards":    cards,
		}); err != nil {
			return err
		}
	default:
		printReport("lists of board", h.Lists)
		for _, r := range h.Cards {
			printReport("cards of list", r)
		}
	}

	if !h.OK() {
		err := models.Integrity("chain problems found on board %d", boardID)
		if s.Formatter.JSON {
			// the health payload already carries the problems
			return cli.Reported(err)
		}
		return err
	}
	if !s.Formatter.Quiet && !s.Formatter.JSON {
		fmt.Println(styles.SuccessStyle.Render("OK") + fmt.Sprintf(" board %d is healthy", boardID))
	}
	return nil
}

func printReport(what string, r chain.Report) {
	status := styles.SuccessStyle.Render("OK")
	if !r.OK() {
		status = styles.ErrorStyle.Render("BROKEN")
	}
	fmt.Printf("%s %s %d: %d rows, %d reachable\n", status, what, r.Scope, r.Rows, r.Visited)
	for _, p := range r.Problems {
		fmt.Printf("    - %s\n", p)
	}
}
