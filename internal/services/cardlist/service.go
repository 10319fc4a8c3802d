package cardlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thenoetrevino/kanban/internal/chain"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

const maxNameLength = 50

// Service defines all card-list operations. Ordering changes run in the unit
// of work bound to ctx when there is one.
type Service interface {
	// Read operations
	GetByID(ctx context.Context, id types.CardListID) (*models.CardList, error)
	GetByBoard(ctx context.Context, boardID types.BoardID) ([]*models.CardList, error)

	// Write operations
	AddNew(ctx context.Context, req CreateListRequest) (*models.CardList, error)
	Rename(ctx context.Context, id types.CardListID, name string) (*models.CardList, error)
	Move(ctx context.Context, req MoveListRequest) (*models.CardList, error)
	Delete(ctx context.Context, id types.CardListID) (*models.CardList, error)
	Verify(ctx context.Context, boardID types.BoardID) (chain.Report, error)
}

// CreateListRequest encapsulates data for creating a list
type CreateListRequest struct {
	BoardID types.BoardID
	AfterID types.CardListID // 0 = head, unless Append is set
	Append  bool             // place after the current tail
	Name    string
}

// MoveListRequest encapsulates data for moving a list. ToBoardID 0 keeps the
// list on its board.
type MoveListRequest struct {
	ListID      types.CardListID
	FromBoardID types.BoardID
	ToBoardID   types.BoardID
	AfterID     types.CardListID
}

// repository defines the list data access needed by the service
type repository interface {
	Insert(ctx context.Context, boardID types.BoardID, name string) (types.CardListID, error)
	GetByID(ctx context.Context, id types.CardListID) (*models.CardList, error)
	ListByBoard(ctx context.Context, boardID types.BoardID) ([]*models.CardList, error)
	Rename(ctx context.Context, id types.CardListID, name string) error
	Delete(ctx context.Context, id types.CardListID) error
}

// boardRepository is needed to check the target board exists
type boardRepository interface {
	GetByID(ctx context.Context, id types.BoardID) (*models.Board, error)
}

// cardRepository is needed for the empty-list rule and cross-board moves
type cardRepository interface {
	CountByList(ctx context.Context, listID types.CardListID) (int, error)
	SetBoardForList(ctx context.Context, listID types.CardListID, boardID types.BoardID) error
}

// attachmentRepository follows cards to their new board
type attachmentRepository interface {
	SetBoardForList(ctx context.Context, listID types.CardListID, boardID types.BoardID) error
}

type service struct {
	db          *database.DB
	repo        repository
	boards      boardRepository
	cards       cardRepository
	attachments attachmentRepository
	chain       *chain.Store
	logger      *slog.Logger
}

// NewService creates a new card list service
func NewService(db *database.DB, repo *database.Repository) Service {
	return &service{
		db:          db,
		repo:        repo.Lists,
		boards:      repo.Boards,
		cards:       repo.Cards,
		attachments: repo.Attachments,
		chain:       chain.NewStore(db, chain.ListSpec),
		logger:      db.Logger(),
	}
}

// GetByID retrieves a specific list
func (s *service) GetByID(ctx context.Context, id types.CardListID) (*models.CardList, error) {
	if id <= 0 {
		return nil, ErrInvalidListID
	}
	return s.repo.GetByID(ctx, id)
}

// GetByBoard returns a board's lists in display order. A broken chain is
// logged and the lists reachable from the head are returned.
func (s *service) GetByBoard(ctx context.Context, boardID types.BoardID) ([]*models.CardList, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	rows, err := s.repo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	ordered, err := chain.Ordered[types.CardListID](
		fmt.Sprintf("board:%d", boardID), rows, chain.WithLogger(s.logger))
	if err != nil {
		s.logger.Warn("returning partial list order", "board_id", boardID, "lists", len(ordered), "stored", len(rows))
	}
	return ordered, nil
}

// AddNew creates a list and links it into the board's chain
func (s *service) AddNew(ctx context.Context, req CreateListRequest) (*models.CardList, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	var id types.CardListID
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		if _, err := s.boards.GetByID(ctx, req.BoardID); err != nil {
			return err
		}

		var err error
		id, err = s.repo.Insert(ctx, req.BoardID, name)
		if err != nil {
			return err
		}

		if req.Append {
			return s.chain.Append(ctx, req.BoardID.Int64(), id.Int64())
		}
		return s.chain.InsertAfter(ctx, req.BoardID.Int64(), req.AfterID.Int64(), id.Int64())
	})
	if err != nil {
		return nil, models.WithOp("list.add", err)
	}

	return s.repo.GetByID(ctx, id)
}

// Rename updates a list name
func (s *service) Rename(ctx context.Context, id types.CardListID, name string) (*models.CardList, error) {
	if id <= 0 {
		return nil, ErrInvalidListID
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var out *models.CardList
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		l, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Rename(ctx, id, name); err != nil {
			return fmt.Errorf("failed to rename list: %w", err)
		}
		l.Name = name
		out = l
		return nil
	})
	if err != nil {
		return nil, models.WithOp("list.rename", err)
	}
	return out, nil
}

// Move reorders a list on its board or moves it, with its cards, to another
// board. The list must currently be on FromBoardID.
func (s *service) Move(ctx context.Context, req MoveListRequest) (*models.CardList, error) {
	if req.ListID <= 0 {
		return nil, ErrInvalidListID
	}
	if req.FromBoardID <= 0 || req.ToBoardID < 0 {
		return nil, ErrInvalidBoardID
	}
	to := req.ToBoardID
	if to == 0 {
		to = req.FromBoardID
	}

	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		l, err := s.repo.GetByID(ctx, req.ListID)
		if err != nil {
			return err
		}
		if l.BoardID != req.FromBoardID {
			return ErrListNotOnBoard
		}
		if to != req.FromBoardID {
			if _, err := s.boards.GetByID(ctx, to); err != nil {
				return err
			}
		}

		if err := s.chain.ReassignScope(ctx, req.ListID.Int64(), to.Int64(), req.AfterID.Int64()); err != nil {
			return err
		}

		if to != req.FromBoardID {
			if err := s.cards.SetBoardForList(ctx, req.ListID, to); err != nil {
				return fmt.Errorf("moving cards to board %d: %w", to, err)
			}
			if err := s.attachments.SetBoardForList(ctx, req.ListID, to); err != nil {
				return fmt.Errorf("moving attachments to board %d: %w", to, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.WithOp("list.move", err)
	}

	s.logger.Debug("list moved", "list_id", req.ListID, "from", req.FromBoardID, "to", to, "after", req.AfterID)
	return s.repo.GetByID(ctx, req.ListID)
}

// Delete removes an empty list and returns it as it was before deletion
func (s *service) Delete(ctx context.Context, id types.CardListID) (*models.CardList, error) {
	if id <= 0 {
		return nil, ErrInvalidListID
	}

	var old *models.CardList
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		l, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.cards.CountByList(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}
		if n > 0 {
			return ErrListHasCards
		}

		if err := s.chain.Remove(ctx, id.Int64()); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
		old = l
		return nil
	})
	if err != nil {
		return nil, models.WithOp("list.delete", err)
	}
	return old, nil
}

// Verify reports the health of a board's list chain
func (s *service) Verify(ctx context.Context, boardID types.BoardID) (chain.Report, error) {
	if boardID <= 0 {
		return chain.Report{}, ErrInvalidBoardID
	}
	return s.chain.Verify(ctx, boardID.Int64())
}

func validateCreate(req CreateListRequest) error {
	if req.BoardID <= 0 {
		return ErrInvalidBoardID
	}
	if req.AfterID < 0 {
		return ErrInvalidListID
	}
	if req.Append && req.AfterID != 0 {
		return ErrAnchorAndTail
	}
	return validateName(strings.TrimSpace(req.Name))
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
