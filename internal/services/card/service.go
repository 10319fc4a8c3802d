package card

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

const maxTitleLength = 255

// Service defines all card operations
type Service interface {
	// Read operations
	GetByID(ctx context.Context, id types.CardID) (*models.Card, error)
	GetByList(ctx context.Context, listID types.CardListID) ([]*models.Card, error)
	CountByList(ctx context.Context, listID types.CardListID) (int, error)

	// Write operations
	AddNew(ctx context.Context, req CreateCardRequest) (*models.Card, error)
	Rename(ctx context.Context, id types.CardID, title string) (*models.Card, error)
	Update(ctx context.Context, req UpdateCardRequest) (*models.Card, error)
	Move(ctx context.Context, req MoveCardRequest) (*models.Card, error)
	Delete(ctx context.Context, id types.CardID) (*models.Card, error)
	Verify(ctx context.Context, listID types.CardListID) (chain.Report, error)
}

// CreateCardRequest encapsulates data for creating a card
type CreateCardRequest struct {
	ListID    types.CardListID
	AfterID   types.CardID // 0 = head, unless Append is set
	Append    bool
	Title     string
	Content   string
	LabelMask models.LabelMask
	Flags     models.CardFlags
}

// UpdateCardRequest encapsulates a partial card update. Nil fields are left
// unchanged.
type UpdateCardRequest struct {
	CardID            types.CardID
	Title             *string
	Content           *string
	LabelMask         *models.LabelMask
	Flags             *models.CardFlags
	CoverAttachmentID *types.AttachmentID
}

// MoveCardRequest encapsulates data for moving a card. ToListID 0 reorders
// within FromListID.
type MoveCardRequest struct {
	CardID     types.CardID
	FromListID types.CardListID
	ToListID   types.CardListID
	AfterID    types.CardID
}

// AttachmentRemover deletes the attachments owned by a card
type AttachmentRemover interface {
	DeleteByCard(ctx context.Context, cardID types.CardID) (int, error)
}

type repository interface {
	Insert(ctx context.Context, c *models.Card) (types.CardID, error)
	GetByID(ctx context.Context, id types.CardID) (*models.Card, error)
	ListByList(ctx context.Context, listID types.CardListID) ([]*models.Card, error)
	CountByList(ctx context.Context, listID types.CardListID) (int, error)
	Update(ctx context.Context, c *models.Card) error
	SetMoved(ctx context.Context, id types.CardID, boardID types.BoardID, at time.Time) error
	Delete(ctx context.Context, id types.CardID) error
}

type listRepository interface {
	GetByID(ctx context.Context, id types.CardListID) (*models.CardList, error)
}

type attachmentRepository interface {
	ListByCard(ctx context.Context, cardID types.CardID) ([]*models.Attachment, error)
	SetBoardForCard(ctx context.Context, cardID types.CardID, boardID types.BoardID) error
}

// Option configures the card service
type Option func(*service)

// WithClock replaces the clock used for last_moved_time
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithAttachmentRemover replaces the collaborator that deletes a card's
// attachments. nil disables the cascade.
func WithAttachmentRemover(r AttachmentRemover) Option {
	return func(s *service) { s.remover = r }
}

type service struct {
	db          *database.DB
	repo        repository
	lists       listRepository
	attachments attachmentRepository
	remover     AttachmentRemover
	chain       *chain.Store
	now         func() time.Time
	logger      *slog.Logger
}

// NewService creates a new card service. Attachment rows are removed through
// the repository unless WithAttachmentRemover says otherwise.
func NewService(db *database.DB, repo *database.Repository, opts ...Option) Service {
	s := &service{
		db:          db,
		repo:        repo.Cards,
		lists:       repo.Lists,
		attachments: repo.Attachments,
		remover:     repo.Attachments,
		chain:       chain.NewStore(db, chain.CardSpec),
		now:         time.Now,
		logger:      db.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetByID(ctx context.Context, id types.CardID) (*models.Card, error) {
	if id <= 0 {
		return nil, ErrInvalidCardID
	}
	return s.repo.GetByID(ctx, id)
}

// GetByList returns a list's cards in display order. A broken chain is logged
// and the cards reachable from the head are returned.
func (s *service) GetByList(ctx context.Context, listID types.CardListID) ([]*models.Card, error) {
	if listID <= 0 {
		return nil, ErrInvalidListID
	}
	rows, err := s.repo.ListByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	ordered, err := chain.Ordered[types.CardID](
		fmt.Sprintf("cardlist:%d", listID), rows, chain.WithLogger(s.logger))
	if err != nil {
		s.logger.Warn("returning partial card order", "list_id", listID, "cards", len(ordered), "stored", len(rows))
	}
	return ordered, nil
}

func (s *service) CountByList(ctx context.Context, listID types.CardListID) (int, error) {
	if listID <= 0 {
		return 0, ErrInvalidListID
	}
	return s.repo.CountByList(ctx, listID)
}

// AddNew creates a card in a list. The card takes its board from the list.
func (s *service) AddNew(ctx context.Context, req CreateCardRequest) (*models.Card, error) {
	if req.ListID <= 0 {
		return nil, ErrInvalidListID
	}
	if req.AfterID < 0 {
		return nil, ErrInvalidCardID
	}
	if req.Append && req.AfterID != 0 {
		return nil, ErrAnchorAndTail
	}
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	var id types.CardID
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		list, err := s.lists.GetByID(ctx, req.ListID)
		if err != nil {
			return err
		}

		id, err = s.repo.Insert(ctx, &models.Card{
			BoardID:       list.BoardID,
			ListID:        list.ID,
			Title:         title,
			Content:       req.Content,
			LabelMask:     req.LabelMask,
			Flags:         req.Flags,
			LastMovedTime: s.now(),
		})
		if err != nil {
			return err
		}

		if req.Append {
			return s.chain.Append(ctx, req.ListID.Int64(), id.Int64())
		}
		return s.chain.InsertAfter(ctx, req.ListID.Int64(), req.AfterID.Int64(), id.Int64())
	})
	if err != nil {
		return nil, models.WithOp("card.add", err)
	}

	return s.repo.GetByID(ctx, id)
}

// Rename changes a card title
func (s *service) Rename(ctx context.Context, id types.CardID, title string) (*models.Card, error) {
	return s.Update(ctx, UpdateCardRequest{CardID: id, Title: &title})
}

// Update writes the fields set in req
func (s *service) Update(ctx context.Context, req UpdateCardRequest) (*models.Card, error) {
	if req.CardID <= 0 {
		return nil, ErrInvalidCardID
	}
	var title string
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
	}

	var out *models.Card
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetByID(ctx, req.CardID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			c.Title = title
		}
		if req.Content != nil {
			c.Content = *req.Content
		}
		if req.LabelMask != nil {
			c.LabelMask = *req.LabelMask
		}
		if req.Flags != nil {
			c.Flags = *req.Flags
		}
		if req.CoverAttachmentID != nil {
			cover := *req.CoverAttachmentID
			if cover != 0 {
				if err := s.checkCover(ctx, c.ID, cover); err != nil {
					return err
				}
			}
			c.CoverAttachmentID = cover
		}

		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, models.WithOp("card.update", err)
	}
	return out, nil
}

func (s *service) checkCover(ctx context.Context, cardID types.CardID, cover types.AttachmentID) error {
	atts, err := s.attachments.ListByCard(ctx, cardID)
	if err != nil {
		return err
	}
	for _, a := range atts {
		if a.ID == cover {
			return nil
		}
	}
	return ErrCoverNotOnCard
}

// Move reorders a card within its list or moves it to another list, possibly
// on another board. A move between lists refreshes last_moved_time.
func (s *service) Move(ctx context.Context, req MoveCardRequest) (*models.Card, error) {
	if req.CardID <= 0 {
		return nil, ErrInvalidCardID
	}
	if req.FromListID <= 0 || req.ToListID < 0 {
		return nil, ErrInvalidListID
	}
	to := req.ToListID
	if to == 0 {
		to = req.FromListID
	}

	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetByID(ctx, req.CardID)
		if err != nil {
			return err
		}
		if c.ListID != req.FromListID {
			return ErrCardNotInList
		}

		boardID := c.BoardID
		if to != req.FromListID {
			dest, err := s.lists.GetByID(ctx, to)
			if err != nil {
				return err
			}
			boardID = dest.BoardID
		}

		if err := s.chain.ReassignScope(ctx, req.CardID.Int64(), to.Int64(), req.AfterID.Int64()); err != nil {
			return err
		}

		if to == req.FromListID {
			return nil
		}
		if err := s.repo.SetMoved(ctx, req.CardID, boardID, s.now()); err != nil {
			return fmt.Errorf("failed to record card move: %w", err)
		}
		if boardID != c.BoardID {
			if err := s.attachments.SetBoardForCard(ctx, req.CardID, boardID); err != nil {
				return fmt.Errorf("moving attachments to board %d: %w", boardID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.WithOp("card.move", err)
	}

	s.logger.Debug("card moved", "card_id", req.CardID, "from", req.FromListID, "to", to, "after", req.AfterID)
	return s.repo.GetByID(ctx, req.CardID)
}

// Delete unlinks and removes a card together with its attachments and
// returns the card as it was
func (s *service) Delete(ctx context.Context, id types.CardID) (*models.Card, error) {
	if id <= 0 {
		return nil, ErrInvalidCardID
	}

	var old *models.Card
	err := s.db.Unit(ctx).Do(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.chain.Remove(ctx, id.Int64()); err != nil {
			return err
		}

		if s.remover != nil {
			n, err := s.remover.DeleteByCard(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete attachments: %w", err)
			}
			if n > 0 {
				s.logger.Debug("deleted card attachments", "card_id", id, "count", n)
			}
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		old = c
		return nil
	})
	if err != nil {
		return nil, models.WithOp("card.delete", err)
	}
	return old, nil
}

// Verify reports the health of a list's card chain
func (s *service) Verify(ctx context.Context, listID types.CardListID) (chain.Report, error) {
	if listID <= 0 {
		return chain.Report{}, ErrInvalidListID
	}
	return s.chain.Verify(ctx, listID.Int64())
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
