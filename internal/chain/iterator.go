// Package chain maintains the doubly-linked ordering embedded in card and
// card list rows and walks it back into display order.
package chain

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/thenoetrevino/kanban/internal/models"
)

// Linked is a row that knows its own id and its neighbours' ids.
// A zero id means "no neighbour".
type Linked[ID ~int64] interface {
	ChainID() ID
	ChainPrev() ID
	ChainNext() ID
}

// Option configures an Iterator
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets where integrity violations are reported
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Iterator walks rows of one scope from head to tail, following next
// pointers. It is single pass and pulls one row per Next call.
//
// A cycle, a next pointer to a row that is not in the scope, a missing head,
// or rows that cannot be reached from the head stop the walk: the problem is
// logged and Err reports a chain integrity error. Rows already returned by
// Value stay valid, so callers get a partial result.
type Iterator[ID ~int64, T Linked[ID]] struct {
	scope  string
	byID   map[ID]T
	head   ID
	filter func(T) bool
	logger *slog.Logger

	started bool
	done    bool
	next    ID
	seen    map[ID]struct{}
	cur     T
	err     error
}

// NewIterator indexes rows by id and locates the head. scope labels log
// records, e.g. "list:4".
func NewIterator[ID ~int64, T Linked[ID]](scope string, rows []T, opts ...Option) *Iterator[ID, T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	it := &Iterator[ID, T]{
		scope:  scope,
		byID:   make(map[ID]T, len(rows)),
		logger: o.logger,
		seen:   make(map[ID]struct{}, len(rows)),
	}

	var heads []ID
	for _, row := range rows {
		id := row.ChainID()
		if _, dup := it.byID[id]; dup {
			continue
		}
		it.byID[id] = row
		if row.ChainPrev() == 0 {
			heads = append(heads, id)
		}
	}

	if len(heads) > 0 {
		slices.Sort(heads)
		it.head = heads[0]
		if len(heads) > 1 {
			it.logger.Error("chain integrity violation",
				"scope", scope,
				"problem", "multiple heads",
				"heads", heads,
				"using", it.head)
		}
	}
	return it
}

// Where restricts the rows yielded by Value. The predicate does not affect
// traversal: rows it rejects are still followed. Call before the first Next.
func (it *Iterator[ID, T]) Where(pred func(T) bool) *Iterator[ID, T] {
	it.filter = pred
	return it
}

// Next advances to the next row. It returns false at the end of the chain
// or when the walk was aborted; check Err to tell the two apart.
func (it *Iterator[ID, T]) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		if len(it.byID) == 0 {
			it.done = true
			return false
		}
		if it.head == 0 {
			it.fail("no head row (every row has a previous pointer)")
			return false
		}
		it.next = it.head
	}

	for {
		if it.next == 0 {
			it.finish()
			return false
		}
		if _, loop := it.seen[it.next]; loop {
			it.fail(fmt.Sprintf("cycle detected at row %d", it.next))
			return false
		}
		row, ok := it.byID[it.next]
		if !ok {
			it.fail(fmt.Sprintf("dangling next pointer to row %d", it.next))
			return false
		}

		it.seen[it.next] = struct{}{}
		it.next = row.ChainNext()

		if it.filter != nil && !it.filter(row) {
			continue
		}
		it.cur = row
		return true
	}
}

// Value returns the row reached by the last successful Next
func (it *Iterator[ID, T]) Value() T { return it.cur }

// Err returns the integrity error that stopped the walk, if any
func (it *Iterator[ID, T]) Err() error { return it.err }

// All adapts the iterator for range-over-func. It shares the single pass.
func (it *Iterator[ID, T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Visited reports how many rows the walk has passed so far
func (it *Iterator[ID, T]) Visited() int { return len(it.seen) }

func (it *Iterator[ID, T]) finish() {
	it.done = true
	var zero T
	it.cur = zero
	if missing := len(it.byID) - len(it.seen); missing > 0 {
		it.fail(fmt.Sprintf("%d rows unreachable from head %d", missing, it.head))
	}
}

func (it *Iterator[ID, T]) fail(problem string) {
	it.done = true
	var zero T
	it.cur = zero
	it.err = models.Integrity("%s: %s", it.scope, problem)
	it.logger.Error("chain integrity violation",
		"scope", it.scope,
		"problem", problem,
		"rows", len(it.byID),
		"visited", len(it.seen))
}

// Collect drains the iterator. On an integrity error it returns the rows
// gathered before the walk stopped together with the error.
func Collect[ID ~int64, T Linked[ID]](it *Iterator[ID, T]) ([]T, error) {
	var out []T
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}

// Ordered builds an iterator over rows and collects it
func Ordered[ID ~int64, T Linked[ID]](scope string, rows []T, opts ...Option) ([]T, error) {
	return Collect(NewIterator[ID](scope, rows, opts...))
}
