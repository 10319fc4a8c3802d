package cardlist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/testutil"
	"github.com/thenoetrevino/kanban/internal/types"
)

func setupService(t *testing.T) (*database.DB, Service, types.BoardID) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewService(db, database.NewRepository(db))
	board := testutil.CreateTestBoard(t, db, "Board")
	return db, svc, board
}

func listNames(t *testing.T, svc Service, board types.BoardID) []string {
	t.Helper()
	lists, err := svc.GetByBoard(context.Background(), board)
	if err != nil {
		t.Fatalf("GetByBoard failed: %v", err)
	}
	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, l.Name)
	}
	return names
}

func assertNames(t *testing.T, svc Service, board types.BoardID, want ...string) {
	t.Helper()
	got := listNames(t, svc, board)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected lists %v, got %v", want, got)
	}
	report, err := svc.Verify(context.Background(), board)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !report.OK() {
		t.Fatalf("Expected healthy chain, got %v", report.Problems)
	}
}

func TestAddNew(t *testing.T) {
	t.Parallel()

	_, svc, board := setupService(t)
	ctx := context.Background()

	todo, err := svc.AddNew(ctx, CreateListRequest{BoardID: board, Append: true, Name: "Todo"})
	if err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	if _, err := svc.AddNew(ctx, CreateListRequest{BoardID: board, Append: true, Name: "Done"}); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	if _, err := svc.AddNew(ctx, CreateListRequest{BoardID: board, AfterID: todo.ID, Name: "  Doing  "}); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	if _, err := svc.AddNew(ctx, CreateListRequest{BoardID: board, Name: "Backlog"}); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}

	assertNames(t, svc, board, "Backlog", "Todo", "Doing", "Done")
}

func TestAddNew_Validation(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	other := testutil.CreateTestBoard(t, db, "Other")
	foreign := testutil.CreateTestList(t, db, other, "Foreign")
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateListRequest
		want error
	}{
		{"empty name", CreateListRequest{BoardID: board, Name: "   "}, ErrEmptyName},
		{"long name", CreateListRequest{BoardID: board, Name: strings.Repeat("x", 51)}, ErrNameTooLong},
		{"no board", CreateListRequest{Name: "x"}, ErrInvalidBoardID},
		{"anchor and append", CreateListRequest{BoardID: board, AfterID: 1, Append: true, Name: "x"}, ErrAnchorAndTail},
		{"missing board", CreateListRequest{BoardID: 999, Name: "x"}, models.ErrNotFound},
		{"anchor on other board", CreateListRequest{BoardID: board, AfterID: foreign, Name: "x"}, models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddNew(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	// Failed inserts are rolled back with their unit
	if names := listNames(t, svc, board); len(names) != 0 {
		t.Errorf("Expected no lists, got %v", names)
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	id := testutil.CreateTestList(t, db, board, "Todo")

	l, err := svc.Rename(context.Background(), id, "Next up")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if l.Name != "Next up" {
		t.Errorf("Expected Next up, got %s", l.Name)
	}

	if _, err := svc.Rename(context.Background(), id, ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
	if _, err := svc.Rename(context.Background(), 999, "x"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestMove_SameBoard(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	a := testutil.CreateTestList(t, db, board, "A")
	testutil.CreateTestList(t, db, board, "B")
	c := testutil.CreateTestList(t, db, board, "C")

	if _, err := svc.Move(context.Background(), MoveListRequest{ListID: a, FromBoardID: board, AfterID: c}); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	assertNames(t, svc, board, "B", "C", "A")

	if _, err := svc.Move(context.Background(), MoveListRequest{ListID: a, FromBoardID: board}); err != nil {
		t.Fatalf("Move to head failed: %v", err)
	}
	assertNames(t, svc, board, "A", "B", "C")
}

func TestMove_AcrossBoards(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	other := testutil.CreateTestBoard(t, db, "Other")
	todo := testutil.CreateTestList(t, db, board, "Todo")
	testutil.CreateTestList(t, db, board, "Done")
	inbox := testutil.CreateTestList(t, db, other, "Inbox")
	card := testutil.CreateTestCard(t, db, todo, "card")
	testutil.CreateTestAttachment(t, db, card, "a.png")

	moved, err := svc.Move(context.Background(), MoveListRequest{
		ListID:      todo,
		FromBoardID: board,
		ToBoardID:   other,
		AfterID:     inbox,
	})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if moved.BoardID != other {
		t.Errorf("Expected list on board %d, got %d", other, moved.BoardID)
	}

	assertNames(t, svc, board, "Done")
	assertNames(t, svc, other, "Inbox", "Todo")

	repo := database.NewRepository(db)
	c, err := repo.Cards.GetByID(context.Background(), card)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if c.BoardID != other {
		t.Errorf("Expected card to follow its list to board %d, got %d", other, c.BoardID)
	}
	atts, _ := repo.Attachments.ListByCard(context.Background(), card)
	if len(atts) != 1 || atts[0].BoardID != other {
		t.Errorf("Expected attachment on board %d, got %+v", other, atts)
	}
}

func TestMove_WrongSourceBoard(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	other := testutil.CreateTestBoard(t, db, "Other")
	id := testutil.CreateTestList(t, db, board, "Todo")

	_, err := svc.Move(context.Background(), MoveListRequest{ListID: id, FromBoardID: other})
	if !errors.Is(err, ErrListNotOnBoard) {
		t.Errorf("Expected ErrListNotOnBoard, got %v", err)
	}
	assertNames(t, svc, board, "Todo")
}

func TestDelete(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	testutil.CreateTestList(t, db, board, "A")
	b := testutil.CreateTestList(t, db, board, "B")
	testutil.CreateTestList(t, db, board, "C")

	old, err := svc.Delete(context.Background(), b)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if old.Name != "B" || old.ID != b {
		t.Errorf("Expected deleted list B, got %+v", old)
	}
	assertNames(t, svc, board, "A", "C")

	if _, err := svc.GetByID(context.Background(), b); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestDelete_NonEmpty(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	id := testutil.CreateTestList(t, db, board, "Todo")
	testutil.CreateTestCard(t, db, id, "card")

	_, err := svc.Delete(context.Background(), id)
	if !errors.Is(err, ErrListHasCards) {
		t.Fatalf("Expected ErrListHasCards, got %v", err)
	}
	var kerr *models.Error
	if !errors.As(err, &kerr) || kerr.Op != "list.delete" {
		t.Errorf("Expected error tagged with list.delete, got %v", err)
	}
	assertNames(t, svc, board, "Todo")
}

func TestGetByBoard_BrokenChainReturnsPartial(t *testing.T) {
	t.Parallel()

	db, svc, board := setupService(t)
	a := testutil.CreateTestList(t, db, board, "A")
	b := testutil.CreateTestList(t, db, board, "B")
	testutil.CreateTestList(t, db, board, "C")

	// B points back at A, closing a loop before C
	testutil.CorruptLink(t, db, "cardlist", b.Int64(), a.Int64(), a.Int64())

	lists, err := svc.GetByBoard(context.Background(), board)
	if err != nil {
		t.Fatalf("Expected partial result without error, got %v", err)
	}
	if len(lists) != 2 || lists[0].ID != a || lists[1].ID != b {
		t.Errorf("Expected [A B], got %d lists", len(lists))
	}

	report, err := svc.Verify(context.Background(), board)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if report.OK() {
		t.Error("Expected Verify to report the broken chain")
	}
}
