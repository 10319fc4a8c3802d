package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thenoetrevino/kanban/internal/chain"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

const maxNameLength = 100

// Service defines board operations. Gating is done by the caller.
type Service interface {
	// Read operations
	GetByID(ctx context.Context, id types.BoardID) (*models.Board, error)
	List(ctx context.Context) ([]*models.Board, error)
	ListForUser(ctx context.Context, user types.UserID) ([]*models.Board, error)
	View(ctx context.Context, id types.BoardID) (*models.BoardView, error)
	Verify(ctx context.Context, id types.BoardID) (*Health, error)

	// Write operations
	Create(ctx context.Context, name string) (*models.Board, error)
	Rename(ctx context.Context, id types.BoardID, name string) (*models.Board, error)
	Delete(ctx context.Context, id types.BoardID) (*models.Board, error)
}

// Health is the chain report of a board's lists and of every list's cards
type Health struct {
	BoardID types.BoardID
	Lists   chain.Report
	Cards   []chain.Report
}

// OK reports whether every chain on the board is healthy
func (h *Health) OK() bool {
	if !h.Lists.OK() {
		return false
	}
	for _, r := range h.Cards {
		if !r.OK() {
			return false
		}
	}
	return true
}

type service struct {
	db     *database.DB
	repo   *database.Repository
	lists  *chain.Store
	cards  *chain.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a new board service
func NewService(db *database.DB, repo *database.Repository) Service {
	return &service{
		db:     db,
		repo:   repo,
		lists:  chain.NewStore(db, chain.ListSpec),
		cards:  chain.NewStore(db, chain.CardSpec),
		now:    time.Now,
		logger: db.Logger(),
	}
}

func (s *service) GetByID(ctx context.Context, id types.BoardID) (*models.Board, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}
	return s.repo.Boards.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*models.Board, error) {
	return s.repo.Boards.List(ctx)
}

// ListForUser returns the boards user can see
func (s *service) ListForUser(ctx context.Context, user types.UserID) ([]*models.Board, error) {
	return s.repo.Boards.ListForUser(ctx, user)
}

// View loads a board with its lists and cards in display order. Broken
// chains are logged and contribute only the rows reachable from their head.
func (s *service) View(ctx context.Context, id types.BoardID) (*models.BoardView, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}

	b, err := s.repo.Boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lists, err := s.repo.Lists.ListByBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	cards, err := s.repo.Cards.ListByBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	byList := make(map[types.CardListID][]*models.Card)
	for _, c := range cards {
		byList[c.ListID] = append(byList[c.ListID], c)
	}

	opt := chain.WithLogger(s.logger)
	ordered, err := chain.Ordered[types.CardListID](fmt.Sprintf("board:%d", id), lists, opt)
	if err != nil {
		s.logger.Warn("board view has a partial list order", "board_id", id, "error", err)
	}

	view := &models.BoardView{Board: b, Lists: make([]*models.ListView, 0, len(ordered))}
	for _, l := range ordered {
		lc, err := chain.Ordered[types.CardID](fmt.Sprintf("cardlist:%d", l.ID), byList[l.ID], opt)
		if err != nil {
			s.logger.Warn("board view has a partial card order", "board_id", id, "list_id", l.ID, "error", err)
		}
		view.Lists = append(view.Lists, &models.ListView{List: l, Cards: lc})
	}
	return view, nil
}

// Verify checks the list chain of a board and the card chain of every list
// stored on it, including lists that are not reachable from the head.
func (s *service) Verify(ctx context.Context, id types.BoardID) (*Health, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}
	if _, err := s.repo.Boards.GetByID(ctx, id); err != nil {
		return nil, err
	}

	report, err := s.lists.Verify(ctx, id.Int64())
	if err != nil {
		return nil, err
	}
	h := &Health{BoardID: id, Lists: report}

	lists, err := s.repo.Lists.ListByBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		r, err := s.cards.Verify(ctx, l.ID.Int64())
		if err != nil {
			return nil, err
		}
		h.Cards = append(h.Cards, r)
	}
	return h, nil
}

// Create inserts a board. The caller records its owner in the same unit.
func (s *service) Create(ctx context.Context, name string) (*models.Board, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	b, err := s.repo.Boards.Create(ctx, name, s.now())
	if err != nil {
		return nil, models.WithOp("board.create", err)
	}
	return b, nil
}

func (s *service) Rename(ctx context.Context, id types.BoardID, name string) (*models.Board, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var out *models.Board
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		b, err := s.repo.Boards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Boards.Rename(ctx, id, name); err != nil {
			return fmt.Errorf("failed to rename board: %w", err)
		}
		b.Name = name
		out = b
		return nil
	})
	if err != nil {
		return nil, models.WithOp("board.rename", err)
	}
	return out, nil
}

// Delete removes a board with everything on it and returns the board as it
// was. Chains are dropped wholesale, so no relinking happens.
func (s *service) Delete(ctx context.Context, id types.BoardID) (*models.Board, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}

	var old *models.Board
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		b, err := s.repo.Boards.GetByID(ctx, id)
		if err != nil {
			return err
		}

		steps := []struct {
			what string
			fn   func(context.Context, types.BoardID) error
		}{
			{"attachments", s.repo.Attachments.DeleteByBoard},
			{"cards", s.repo.Cards.DeleteByBoard},
			{"lists", s.repo.Lists.DeleteByBoard},
			{"permissions", s.repo.Permissions.DeleteByBoard},
			{"board", s.repo.Boards.Delete},
		}
		for _, step := range steps {
			if err := step.fn(ctx, id); err != nil {
				return fmt.Errorf("deleting %s of board %d: %w", step.what, id, err)
			}
		}
		old = b
		return nil
	})
	if err != nil {
		return nil, models.WithOp("board.delete", err)
	}

	s.logger.Info("board deleted", "board_id", id)
	return old, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}
