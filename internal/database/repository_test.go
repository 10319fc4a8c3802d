package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

func TestBoardRepo(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b, err := repo.Boards.Create(ctx, "Roadmap", created)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("Expected board ID to be set")
	}

	got, err := repo.Boards.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Roadmap" || !got.CreatedAt.Equal(created) {
		t.Errorf("Expected Roadmap created %v, got %+v", created, got)
	}

	if err := repo.Boards.Rename(ctx, b.ID, "Plan"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, _ = repo.Boards.GetByID(ctx, b.ID)
	if got.Name != "Plan" {
		t.Errorf("Expected name Plan, got %s", got.Name)
	}

	if err := repo.Boards.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = repo.Boards.GetByID(ctx, b.ID)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestBoardRepo_ListForUser(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	visible, _ := repo.Boards.Create(ctx, "visible", time.Now())
	blocked, _ := repo.Boards.Create(ctx, "blocked", time.Now())
	_, _ = repo.Boards.Create(ctx, "foreign", time.Now())

	user := types.UserID(7)
	if err := repo.Permissions.Set(ctx, models.Permission{BoardID: visible.ID, UserID: user, Role: models.RoleMember}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Permissions.Set(ctx, models.Permission{BoardID: blocked.ID, UserID: user, Role: models.RoleBlocked}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	boards, err := repo.Boards.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != visible.ID {
		t.Errorf("Expected only the visible board, got %+v", boards)
	}

	all, err := repo.Boards.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 boards, got %d", len(all))
	}
}

func TestCardListRepo(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	b, _ := repo.Boards.Create(ctx, "Board", time.Now())
	id, err := repo.Lists.Insert(ctx, b.ID, "Todo")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	l, err := repo.Lists.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if l.BoardID != b.ID || l.Name != "Todo" || l.PrevID != 0 || l.NextID != 0 {
		t.Errorf("Expected detached Todo list on board %d, got %+v", b.ID, l)
	}

	if err := repo.Lists.Rename(ctx, id, "Backlog"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	lists, err := repo.Lists.ListByBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListByBoard failed: %v", err)
	}
	if len(lists) != 1 || lists[0].Name != "Backlog" {
		t.Errorf("Expected renamed list, got %+v", lists)
	}

	_, err = repo.Lists.GetByID(ctx, 999)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCardRepo(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	b, _ := repo.Boards.Create(ctx, "Board", time.Now())
	other, _ := repo.Boards.Create(ctx, "Other", time.Now())
	listID, _ := repo.Lists.Insert(ctx, b.ID, "Todo")

	moved := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	id, err := repo.Cards.Insert(ctx, &models.Card{
		BoardID:       b.ID,
		ListID:        listID,
		Title:         "Write docs",
		Content:       "## notes",
		LabelMask:     models.LabelMask(0).With(0).With(63),
		Flags:         models.FlagLocked,
		LastMovedTime: moved,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	c, err := repo.Cards.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !c.LabelMask.Has(63) || !c.LabelMask.Has(0) || c.LabelMask.Has(1) {
		t.Errorf("Expected label slots 0 and 63 to round trip, got %b", uint64(c.LabelMask))
	}
	if !c.Flags.Has(models.FlagLocked) {
		t.Errorf("Expected locked flag, got %v", c.Flags)
	}
	if !c.LastMovedTime.Equal(moved) {
		t.Errorf("Expected last moved %v, got %v", moved, c.LastMovedTime)
	}

	c.Title = "Write better docs"
	c.Flags |= models.FlagDone
	if err := repo.Cards.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	later := moved.Add(time.Hour)
	if err := repo.Cards.SetMoved(ctx, id, other.ID, later); err != nil {
		t.Fatalf("SetMoved failed: %v", err)
	}
	c, _ = repo.Cards.GetByID(ctx, id)
	if c.Title != "Write better docs" || !c.Flags.Has(models.FlagDone) {
		t.Errorf("Expected updated fields, got %+v", c)
	}
	if c.BoardID != other.ID || !c.LastMovedTime.Equal(later) {
		t.Errorf("Expected board %d moved at %v, got %+v", other.ID, later, c)
	}

	n, err := repo.Cards.CountByList(ctx, listID)
	if err != nil || n != 1 {
		t.Errorf("Expected 1 card in list, got %d (%v)", n, err)
	}

	if err := repo.Cards.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Cards.GetByID(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestPermissionRepo(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	b, _ := repo.Boards.Create(ctx, "Board", time.Now())

	role, err := repo.Permissions.Role(ctx, b.ID, 5)
	if err != nil || role != models.RoleNone {
		t.Fatalf("Expected RoleNone without a row, got %v (%v)", role, err)
	}

	if err := repo.Permissions.Set(ctx, models.Permission{BoardID: b.ID, UserID: 5, Role: models.RoleMember}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Permissions.Set(ctx, models.Permission{BoardID: b.ID, UserID: 5, Role: models.RoleModerator}); err != nil {
		t.Fatalf("Set (replace) failed: %v", err)
	}
	if err := repo.Permissions.Set(ctx, models.Permission{BoardID: b.ID, UserID: -1, Role: models.RoleGuest}); err != nil {
		t.Fatalf("Set template failed: %v", err)
	}

	role, _ = repo.Permissions.Role(ctx, b.ID, 5)
	if role != models.RoleModerator {
		t.Errorf("Expected moderator, got %v", role)
	}

	perms, err := repo.Permissions.ListByBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListByBoard failed: %v", err)
	}
	if len(perms) != 2 || perms[0].UserID != -1 {
		t.Errorf("Expected template row first of 2, got %+v", perms)
	}

	templates, err := repo.Permissions.ListTemplates(ctx, -1)
	if err != nil || len(templates) != 1 {
		t.Errorf("Expected 1 template row, got %+v (%v)", templates, err)
	}

	if err := repo.Permissions.Delete(ctx, b.ID, 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	role, _ = repo.Permissions.Role(ctx, b.ID, 5)
	if role != models.RoleNone {
		t.Errorf("Expected RoleNone after delete, got %v", role)
	}
}

func TestAttachmentRepo(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	b, _ := repo.Boards.Create(ctx, "Board", time.Now())
	listID, _ := repo.Lists.Insert(ctx, b.ID, "Todo")
	cardID, _ := repo.Cards.Insert(ctx, &models.Card{BoardID: b.ID, ListID: listID, Title: "c"})

	for _, name := range []string{"a.png", "b.pdf"} {
		if _, err := repo.Attachments.Create(ctx, &models.Attachment{CardID: cardID, BoardID: b.ID, Name: name, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	atts, err := repo.Attachments.ListByCard(ctx, cardID)
	if err != nil || len(atts) != 2 || atts[0].Name != "a.png" {
		t.Fatalf("Expected 2 attachments in id order, got %+v (%v)", atts, err)
	}

	n, err := repo.Attachments.DeleteByCard(ctx, cardID)
	if err != nil || n != 2 {
		t.Errorf("Expected 2 deleted, got %d (%v)", n, err)
	}
	n, err = repo.Attachments.DeleteByCard(ctx, cardID)
	if err != nil || n != 0 {
		t.Errorf("Expected nothing left to delete, got %d (%v)", n, err)
	}
}
