package chain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
	"xorm.io/builder"
)

// Chain store errors
var (
	ErrAnchorOutOfScope = models.Validation("anchor is not in the target scope")
	ErrSelfAnchor       = models.Validation("a node cannot be placed after itself")
	ErrNodeNotFound     = models.NotFound("chain node not found")
	ErrNodeLinked       = models.Validation("node is still linked into a chain")
)

// Spec names the table and columns holding one kind of chain
type Spec struct {
	Name  string // short label used in logs, e.g. "card"
	Table string
	Scope string // parent column
	Prev  string
	Next  string
}

var (
	// CardSpec orders cards within a card list
	CardSpec = Spec{Name: "card", Table: "card", Scope: "cardlist_id", Prev: "prev_card_id", Next: "next_card_id"}

	// ListSpec orders card lists within a board
	ListSpec = Spec{Name: "list", Table: "cardlist", Scope: "board_id", Prev: "prev_list_id", Next: "next_list_id"}
)

// Link is the chain view of a single row
type Link struct {
	ID    int64
	Scope int64
	Prev  int64
	Next  int64
}

func (l Link) ChainID() int64   { return l.ID }
func (l Link) ChainPrev() int64 { return l.Prev }
func (l Link) ChainNext() int64 { return l.Next }

// Store rewrites prev/next pointers. Every operation runs in the unit of
// work bound to ctx, nesting as a savepoint when one is already open.
type Store struct {
	db     *database.DB
	spec   Spec
	logger *slog.Logger
}

// NewStore creates a store for one chain kind
func NewStore(db *database.DB, spec Spec) *Store {
	return &Store{
		db:     db,
		spec:   spec,
		logger: db.Logger().With("chain", spec.Name),
	}
}

// Spec returns the chain this store maintains
func (s *Store) Spec() Spec { return s.spec }

func (s *Store) columns() string {
	return fmt.Sprintf("id, %s, %s, %s", s.spec.Scope, s.spec.Prev, s.spec.Next)
}

// link reads a row's pointers, locking it for the rest of the transaction
func (s *Store) link(ctx context.Context, id int64) (Link, error) {
	var l Link
	err := s.db.GetForUpdate(ctx,
		s.db.Builder().Select(s.columns()).From(s.spec.Table).Where(builder.Eq{"id": id}),
		&l.ID, &l.Scope, &l.Prev, &l.Next)
	if errors.Is(err, sql.ErrNoRows) {
		return Link{}, ErrNodeNotFound
	}
	if err != nil {
		return Link{}, fmt.Errorf("reading %s %d: %w", s.spec.Name, id, err)
	}
	return l, nil
}

// head returns the id of the first row in scope, ignoring exclude. 0 when
// the scope is empty.
func (s *Store) head(ctx context.Context, scope, exclude int64) (int64, error) {
	return s.edge(ctx, scope, s.spec.Prev, exclude, "id ASC")
}

// Tail returns the id of the last row in scope, 0 when the scope is empty
func (s *Store) Tail(ctx context.Context, scope int64) (int64, error) {
	return s.edge(ctx, scope, s.spec.Next, 0, "id DESC")
}

func (s *Store) edge(ctx context.Context, scope int64, column string, exclude int64, order string) (int64, error) {
	cond := builder.And(
		builder.Eq{s.spec.Scope: scope, column: 0},
		builder.Neq{"id": exclude},
	)
	var id int64
	err := s.db.GetForUpdate(ctx,
		s.db.Builder().Select("id").From(s.spec.Table).Where(cond).OrderBy(order).Limit(1),
		&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("finding %s edge in scope %d: %w", s.spec.Name, scope, err)
	}
	return id, nil
}

func (s *Store) update(ctx context.Context, id int64, set builder.Eq) error {
	_, err := s.db.Exec(ctx, s.db.Builder().Update(set).From(s.spec.Table).Where(builder.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("updating %s %d: %w", s.spec.Name, id, err)
	}
	return nil
}

// InsertAfter links the detached row newID into scope directly after
// afterID. afterID 0 makes it the new head. The anchor is checked before
// anything is written.
func (s *Store) InsertAfter(ctx context.Context, scope, afterID, newID int64) error {
	return s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		if afterID == newID {
			return ErrSelfAnchor
		}

		node, err := s.link(ctx, newID)
		if err != nil {
			return err
		}
		if node.Prev != 0 || node.Next != 0 {
			return ErrNodeLinked
		}

		var next int64
		if afterID == 0 {
			next, err = s.head(ctx, scope, newID)
			if err != nil {
				return err
			}
		} else {
			after, err := s.link(ctx, afterID)
			if errors.Is(err, ErrNodeNotFound) {
				return ErrAnchorOutOfScope
			}
			if err != nil {
				return err
			}
			if after.Scope != scope {
				return ErrAnchorOutOfScope
			}
			next = after.Next
		}

		if err := s.update(ctx, newID, builder.Eq{
			s.spec.Scope: scope,
			s.spec.Prev:  afterID,
			s.spec.Next:  next,
		}); err != nil {
			return err
		}
		if next != 0 {
			if err := s.update(ctx, next, builder.Eq{s.spec.Prev: newID}); err != nil {
				return err
			}
		}
		if afterID != 0 {
			if err := s.update(ctx, afterID, builder.Eq{s.spec.Next: newID}); err != nil {
				return err
			}
		}

		s.logger.Debug("linked", "id", newID, "scope", scope, "after", afterID, "next", next)
		return nil
	})
}

// Append links the detached row newID at the tail of scope
func (s *Store) Append(ctx context.Context, scope, newID int64) error {
	return s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		tail, err := s.edge(ctx, scope, s.spec.Next, newID, "id DESC")
		if err != nil {
			return err
		}
		return s.InsertAfter(ctx, scope, tail, newID)
	})
}

// Remove unlinks id from its chain: its neighbours are joined and its own
// pointers are cleared. The row itself stays; delete it afterwards in the
// same unit of work.
func (s *Store) Remove(ctx context.Context, id int64) error {
	return s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		node, err := s.link(ctx, id)
		if err != nil {
			return err
		}

		if node.Prev != 0 {
			if err := s.update(ctx, node.Prev, builder.Eq{s.spec.Next: node.Next}); err != nil {
				return err
			}
		}
		if node.Next != 0 {
			if err := s.update(ctx, node.Next, builder.Eq{s.spec.Prev: node.Prev}); err != nil {
				return err
			}
		}
		if err := s.update(ctx, id, builder.Eq{s.spec.Prev: 0, s.spec.Next: 0}); err != nil {
			return err
		}

		s.logger.Debug("unlinked", "id", id, "scope", node.Scope, "prev", node.Prev, "next", node.Next)
		return nil
	})
}

// ReassignScope moves id to newScope after afterID (0 for head). The scope
// may be the row's current one, which reorders it in place.
func (s *Store) ReassignScope(ctx context.Context, id, newScope, afterID int64) error {
	return s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		if afterID == id {
			return ErrSelfAnchor
		}
		if afterID != 0 {
			after, err := s.link(ctx, afterID)
			if errors.Is(err, ErrNodeNotFound) {
				return ErrAnchorOutOfScope
			}
			if err != nil {
				return err
			}
			if after.Scope != newScope {
				return ErrAnchorOutOfScope
			}
		}

		if err := s.Remove(ctx, id); err != nil {
			return err
		}
		return s.InsertAfter(ctx, newScope, afterID, id)
	})
}

// Links returns the pointers of every row in scope, in storage order
func (s *Store) Links(ctx context.Context, scope int64) ([]Link, error) {
	rows, err := s.db.Query(ctx, s.db.Builder().Select(s.columns()).From(s.spec.Table).
		Where(builder.Eq{s.spec.Scope: scope}))
	if err != nil {
		return nil, fmt.Errorf("querying %s links: %w", s.spec.Name, err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.Scope, &l.Prev, &l.Next); err != nil {
			return nil, fmt.Errorf("scanning %s link: %w", s.spec.Name, err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s links: %w", s.spec.Name, err)
	}
	return links, nil
}
