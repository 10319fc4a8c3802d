package card

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/thenoetrevino/kanban/internal/chain"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/testutil"
	"github.com/thenoetrevino/kanban/internal/types"
)

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// fakeClock advances one minute per call
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fixture struct {
	db    *database.DB
	svc   Service
	clock *fakeClock
	board types.BoardID
	todo  types.CardListID
	done  types.CardListID
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := &fakeClock{t: epoch}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	f := &fixture{
		db:    db,
		svc:   NewService(db, database.NewRepository(db), opts...),
		clock: clock,
		board: testutil.CreateTestBoard(t, db, "Board"),
	}
	f.todo = testutil.CreateTestList(t, db, f.board, "Todo")
	f.done = testutil.CreateTestList(t, db, f.board, "Done")
	return f
}

func titles(t *testing.T, svc Service, list types.CardListID) string {
	t.Helper()
	cards, err := svc.GetByList(context.Background(), list)
	if err != nil {
		t.Fatalf("GetByList failed: %v", err)
	}
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Title)
	}
	return strings.Join(out, ",")
}

func assertTitles(t *testing.T, svc Service, list types.CardListID, want string) {
	t.Helper()
	if got := titles(t, svc, list); got != want {
		t.Fatalf("Expected cards %q, got %q", want, got)
	}
	report, err := svc.Verify(context.Background(), list)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !report.OK() {
		t.Fatalf("Expected healthy chain, got %v", report.Problems)
	}
}

func TestAddNew(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()

	first, err := f.svc.AddNew(ctx, CreateCardRequest{ListID: f.todo, Append: true, Title: "first"})
	if err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	if first.BoardID != f.board {
		t.Errorf("Expected card on board %d, got %d", f.board, first.BoardID)
	}
	if !first.LastMovedTime.Equal(epoch.Add(time.Minute)) {
		t.Errorf("Expected last moved at creation time, got %v", first.LastMovedTime)
	}

	if _, err := f.svc.AddNew(ctx, CreateCardRequest{ListID: f.todo, Append: true, Title: "third"}); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	if _, err := f.svc.AddNew(ctx, CreateCardRequest{ListID: f.todo, AfterID: first.ID, Title: "second"}); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	if _, err := f.svc.AddNew(ctx, CreateCardRequest{ListID: f.todo, Title: "zeroth"}); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}

	assertTitles(t, f.svc, f.todo, "zeroth,first,second,third")

	n, err := f.svc.CountByList(ctx, f.todo)
	if err != nil || n != 4 {
		t.Errorf("Expected 4 cards, got %d (%v)", n, err)
	}
}

func TestAddNew_Validation(t *testing.T) {
	t.Parallel()

	f := setup(t)
	foreign := testutil.CreateTestCard(t, f.db, f.done, "foreign")
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateCardRequest
		want error
	}{
		{"empty title", CreateCardRequest{ListID: f.todo, Title: " "}, ErrEmptyTitle},
		{"long title", CreateCardRequest{ListID: f.todo, Title: strings.Repeat("t", 256)}, ErrTitleTooLong},
		{"no list", CreateCardRequest{Title: "t"}, ErrInvalidListID},
		{"anchor and append", CreateCardRequest{ListID: f.todo, AfterID: 1, Append: true, Title: "t"}, ErrAnchorAndTail},
		{"missing list", CreateCardRequest{ListID: 999, Title: "t"}, models.ErrNotFound},
		{"anchor in other list", CreateCardRequest{ListID: f.todo, AfterID: foreign, Title: "t"}, chain.ErrAnchorOutOfScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddNew(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	// The row inserted before the anchor check was rolled back
	assertTitles(t, f.svc, f.todo, "")
	n, _ := f.svc.CountByList(ctx, f.todo)
	if n != 0 {
		t.Errorf("Expected no card rows left behind, got %d", n)
	}
}

func TestMove_SameListKeepsTimestamp(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()
	a := testutil.CreateTestCard(t, f.db, f.todo, "a")
	testutil.CreateTestCard(t, f.db, f.todo, "b")
	c := testutil.CreateTestCard(t, f.db, f.todo, "c")

	before, _ := f.svc.GetByID(ctx, a)
	moved, err := f.svc.Move(ctx, MoveCardRequest{CardID: a, FromListID: f.todo, AfterID: c})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	assertTitles(t, f.svc, f.todo, "b,c,a")

	if !moved.LastMovedTime.Equal(before.LastMovedTime) {
		t.Errorf("Expected reorder to keep last moved %v, got %v", before.LastMovedTime, moved.LastMovedTime)
	}
}

func TestMove_AcrossListsRefreshesTimestamp(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()
	a := testutil.CreateTestCard(t, f.db, f.todo, "a")
	testutil.CreateTestCard(t, f.db, f.todo, "b")
	x := testutil.CreateTestCard(t, f.db, f.done, "x")

	moved, err := f.svc.Move(ctx, MoveCardRequest{CardID: a, FromListID: f.todo, ToListID: f.done, AfterID: x})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if moved.ListID != f.done {
		t.Errorf("Expected card in list %d, got %d", f.done, moved.ListID)
	}
	if !moved.LastMovedTime.Equal(epoch.Add(time.Minute)) {
		t.Errorf("Expected last moved from the clock, got %v", moved.LastMovedTime)
	}

	assertTitles(t, f.svc, f.todo, "b")
	assertTitles(t, f.svc, f.done, "x,a")
}

func TestMove_AcrossBoards(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()
	otherBoard := testutil.CreateTestBoard(t, f.db, "Other")
	inbox := testutil.CreateTestList(t, f.db, otherBoard, "Inbox")
	a := testutil.CreateTestCard(t, f.db, f.todo, "a")
	testutil.CreateTestAttachment(t, f.db, a, "spec.pdf")

	moved, err := f.svc.Move(ctx, MoveCardRequest{CardID: a, FromListID: f.todo, ToListID: inbox})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if moved.BoardID != otherBoard {
		t.Errorf("Expected card on board %d, got %d", otherBoard, moved.BoardID)
	}

	atts, err := database.NewRepository(f.db).Attachments.ListByCard(ctx, a)
	if err != nil {
		t.Fatalf("ListByCard failed: %v", err)
	}
	if len(atts) != 1 || atts[0].BoardID != otherBoard {
		t.Errorf("Expected attachment to follow the card, got %+v", atts)
	}
	assertTitles(t, f.svc, inbox, "a")
}

func TestMove_Errors(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()
	a := testutil.CreateTestCard(t, f.db, f.todo, "a")
	x := testutil.CreateTestCard(t, f.db, f.done, "x")

	tests := []struct {
		name string
		req  MoveCardRequest
		want error
	}{
		{"wrong source list", MoveCardRequest{CardID: a, FromListID: f.done}, ErrCardNotInList},
		{"anchor not in destination", MoveCardRequest{CardID: a, FromListID: f.todo, ToListID: f.done, AfterID: 999}, chain.ErrAnchorOutOfScope},
		{"anchor in source list", MoveCardRequest{CardID: x, FromListID: f.done, ToListID: f.todo, AfterID: x}, chain.ErrSelfAnchor},
		{"missing card", MoveCardRequest{CardID: 999, FromListID: f.todo}, models.ErrNotFound},
		{"missing destination", MoveCardRequest{CardID: a, FromListID: f.todo, ToListID: 999}, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Move(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	assertTitles(t, f.svc, f.todo, "a")
	assertTitles(t, f.svc, f.done, "x")
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()
	id := testutil.CreateTestCard(t, f.db, f.todo, "a")
	att := testutil.CreateTestAttachment(t, f.db, id, "cover.png")

	content := "# Notes"
	mask := models.LabelMask(0).With(3)
	flags := models.FlagDone
	c, err := f.svc.Update(ctx, UpdateCardRequest{
		CardID:            id,
		Content:           &content,
		LabelMask:         &mask,
		Flags:             &flags,
		CoverAttachmentID: &att,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Title != "a" || c.Content != content || !c.LabelMask.Has(3) || !c.Flags.Has(models.FlagDone) || c.CoverAttachmentID != att {
		t.Errorf("Unexpected card after update: %+v", c)
	}

	renamed, err := f.svc.Rename(ctx, id, "  b  ")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.Title != "b" || renamed.Content != content {
		t.Errorf("Expected rename to keep other fields, got %+v", renamed)
	}
}

func TestUpdate_ForeignCover(t *testing.T) {
	t.Parallel()

	f := setup(t)
	a := testutil.CreateTestCard(t, f.db, f.todo, "a")
	b := testutil.CreateTestCard(t, f.db, f.todo, "b")
	att := testutil.CreateTestAttachment(t, f.db, b, "b.png")

	_, err := f.svc.Update(context.Background(), UpdateCardRequest{CardID: a, CoverAttachmentID: &att})
	if !errors.Is(err, ErrCoverNotOnCard) {
		t.Errorf("Expected ErrCoverNotOnCard, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()
	testutil.CreateTestCard(t, f.db, f.todo, "a")
	b := testutil.CreateTestCard(t, f.db, f.todo, "b")
	testutil.CreateTestCard(t, f.db, f.todo, "c")
	testutil.CreateTestAttachment(t, f.db, b, "one.txt")
	testutil.CreateTestAttachment(t, f.db, b, "two.txt")

	old, err := f.svc.Delete(ctx, b)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if old.Title != "b" {
		t.Errorf("Expected deleted card b, got %+v", old)
	}
	assertTitles(t, f.svc, f.todo, "a,c")

	atts, _ := database.NewRepository(f.db).Attachments.ListByCard(ctx, b)
	if len(atts) != 0 {
		t.Errorf("Expected attachments to be deleted with the card, got %d", len(atts))
	}
	if _, err := f.svc.GetByID(ctx, b); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

type failingRemover struct{}

func (failingRemover) DeleteByCard(context.Context, types.CardID) (int, error) {
	return 0, errors.New("storage offline")
}

func TestDelete_RemoverFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := setup(t, WithAttachmentRemover(failingRemover{}))
	ctx := context.Background()
	testutil.CreateTestCard(t, f.db, f.todo, "a")
	b := testutil.CreateTestCard(t, f.db, f.todo, "b")

	if _, err := f.svc.Delete(ctx, b); err == nil {
		t.Fatal("Expected delete to fail")
	}
	assertTitles(t, f.svc, f.todo, "a,b")
}

func TestDelete_NoRemover(t *testing.T) {
	t.Parallel()

	f := setup(t, WithAttachmentRemover(nil))
	id := testutil.CreateTestCard(t, f.db, f.todo, "a")
	testutil.CreateTestAttachment(t, f.db, id, "kept.txt")

	if _, err := f.svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertTitles(t, f.svc, f.todo, "")
}

func TestGetByList_BrokenChain(t *testing.T) {
	t.Parallel()

	f := setup(t)
	a := testutil.CreateTestCard(t, f.db, f.todo, "a")
	testutil.CreateTestCard(t, f.db, f.todo, "b")

	// a now points at a row that does not exist
	testutil.CorruptLink(t, f.db, "card", a.Int64(), 0, 999)

	got := titles(t, f.svc, f.todo)
	if got != "a" {
		t.Errorf("Expected partial order %q, got %q", "a", got)
	}
}
