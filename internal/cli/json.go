package cli

import (
	"github.com/thenoetrevino/kanban/internal/chain"
	"github.com/thenoetrevino/kanban/internal/models"
)

// BoardJSON is the JSON shape of a board
func BoardJSON(b *models.Board) map[string]any {
	return map[string]any{
		"id":         b.ID,
		"name":       b.Name,
		"created_at": b.CreatedAt,
	}
}

// ListJSON is the JSON shape of a card list
func ListJSON(l *models.CardList) map[string]any {
	return map[string]any{
		"id":       l.ID,
		"board_id": l.BoardID,
		"name":     l.Name,
		"prev_id":  l.PrevID,
		"next_id":  l.NextID,
	}
}

// CardJSON is the JSON shape of a card
func CardJSON(c *models.Card) map[string]any {
	return map[string]any{
		"id":                  c.ID,
		"board_id":            c.BoardID,
		"list_id":             c.ListID,
		"title":               c.Title,
		"content":             c.Content,
		"prev_id":             c.PrevID,
		"next_id":             c.NextID,
		"cover_attachment_id": c.CoverAttachmentID,
		"labels":              c.LabelMask.Slots(),
		"flags":               c.Flags.String(),
		"last_moved_time":     c.LastMovedTime,
	}
}

// BoardViewJSON is the JSON shape of a board with its lists and cards
func BoardViewJSON(v *models.BoardView) map[string]any {
	lists := make([]map[string]any, 0, len(v.Lists))
	for _, lv := range v.Lists {
		entry := ListJSON(lv.List)
		cards := make([]map[string]any, 0, len(lv.Cards))
		for _, c := range lv.Cards {
			cards = append(cards, CardJSON(c))
		}
		entry["cards"] = cards
		lists = append(lists, entry)
	}
	out := BoardJSON(v.Board)
	out["lists"] = lists
	return out
}

// ReportJSON is the JSON shape of a chain report
func ReportJSON(r chain.Report) map[string]any {
	problems := r.Problems
	if problems == nil {
		problems = []string{}
	}
	return map[string]any{
		"scope":    r.Scope,
		"ok":       r.OK(),
		"rows":     r.Rows,
		"visited":  r.Visited,
		"heads":    r.Heads,
		"problems": problems,
	}
}
