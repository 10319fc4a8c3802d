package chain

import (
	"context"
	"fmt"
	"log/slog"
)

// Report summarizes the health of one scope's chain
type Report struct {
	Scope    int64
	Rows     int
	Visited  int
	Heads    []int64
	Problems []string
}

// OK reports whether no problems were found
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Verify walks a scope's chain and checks every pointer pair. It does not
// repair anything.
func (s *Store) Verify(ctx context.Context, scope int64) (Report, error) {
	links, err := s.Links(ctx, scope)
	if err != nil {
		return Report{}, err
	}
	return check(s.spec.Name, scope, links, s.logger), nil
}

func check(name string, scope int64, links []Link, logger *slog.Logger) Report {
	r := Report{Scope: scope, Rows: len(links)}

	byID := make(map[int64]Link, len(links))
	for _, l := range links {
		byID[l.ID] = l
		if l.Prev == 0 {
			r.Heads = append(r.Heads, l.ID)
		}
	}
	if len(links) > 0 && len(r.Heads) != 1 {
		r.Problems = append(r.Problems, fmt.Sprintf("expected 1 head, found %d", len(r.Heads)))
	}

	for _, l := range links {
		if l.Next != 0 {
			next, ok := byID[l.Next]
			switch {
			case !ok:
				r.Problems = append(r.Problems, fmt.Sprintf("row %d: next %d is not in scope", l.ID, l.Next))
			case next.Prev != l.ID:
				r.Problems = append(r.Problems, fmt.Sprintf("row %d: next %d points back to %d", l.ID, l.Next, next.Prev))
			}
		}
		if l.Prev != 0 {
			if _, ok := byID[l.Prev]; !ok {
				r.Problems = append(r.Problems, fmt.Sprintf("row %d: prev %d is not in scope", l.ID, l.Prev))
			}
		}
	}

	// The walk logs its own violations; a discard logger keeps Verify quiet
	// since problems are returned in the report.
	it := NewIterator[int64](fmt.Sprintf("%s:%d", name, scope), links,
		WithLogger(slog.New(slog.DiscardHandler)))
	for it.Next() {
	}
	r.Visited = it.Visited()
	if err := it.Err(); err != nil {
		r.Problems = append(r.Problems, err.Error())
	}

	if len(r.Problems) > 0 {
		logger.Warn("chain verification failed", "scope", scope, "problems", len(r.Problems))
	}
	return r
}
