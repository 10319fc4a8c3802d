package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// stubResolver answers from a fixed map
type stubResolver map[types.UserID]models.Role

func (s stubResolver) Role(_ context.Context, _ types.BoardID, user types.UserID) (models.Role, error) {
	if r, ok := s[user]; ok {
		return r, nil
	}
	return models.RoleNone, nil
}

type failingResolver struct{}

func (failingResolver) Role(context.Context, types.BoardID, types.UserID) (models.Role, error) {
	return models.RoleNone, errors.New("db down")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		actual, required models.Role
		want             bool
	}{
		{models.RoleOwner, models.RoleMember, true},
		{models.RoleGuest, models.RoleMember, false},
		{models.RoleMember, models.RoleMember, true},
		{models.RoleModerator, models.RoleModerator, true},
		{models.RoleBlocked, models.RoleGuest, false},
		{models.RoleNone, models.RoleBlocked, false},
	}

	for _, tt := range tests {
		if got := Check(tt.actual, tt.required); got != tt.want {
			t.Errorf("Check(%v, %v) = %v, want %v", tt.actual, tt.required, got, tt.want)
		}
	}
}

func TestGate_Require(t *testing.T) {
	t.Parallel()

	gate := NewGate(stubResolver{1: models.RoleOwner, 2: models.RoleGuest}, nil)
	ctx := context.Background()

	role, err := gate.Require(ctx, identity.Actor{UserID: 1}, 5, models.RoleMember, "card.add")
	if err != nil {
		t.Fatalf("Expected owner to pass, got %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("Expected owner role, got %v", role)
	}

	_, err = gate.Require(ctx, identity.Actor{UserID: 2}, 5, models.RoleMember, "card.add")
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("Expected permission denied, got %v", err)
	}
	if !errors.Is(err, ErrInsufficientRole) {
		t.Errorf("Expected ErrInsufficientRole, got %v", err)
	}
	var de *models.Error
	if !errors.As(err, &de) || de.Op != "card.add" {
		t.Errorf("Expected error to carry op card.add, got %v", err)
	}

	_, err = gate.Require(ctx, identity.Actor{UserID: 3}, 5, models.RoleGuest, "board.view")
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("Expected user without a row to be denied, got %v", err)
	}
}

func TestGate_AdminIsOwner(t *testing.T) {
	t.Parallel()

	gate := NewGate(failingResolver{}, nil)
	role, err := gate.Require(context.Background(), identity.Actor{UserID: 9, Admin: true}, 1, models.RoleOwner, "board.delete")
	if err != nil {
		t.Fatalf("Expected admin to pass without a lookup, got %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("Expected owner, got %v", role)
	}
}

func TestGate_ResolverError(t *testing.T) {
	t.Parallel()

	gate := NewGate(failingResolver{}, nil)
	_, err := gate.Require(context.Background(), identity.Actor{UserID: 9}, 1, models.RoleGuest, "board.view")
	if err == nil {
		t.Fatal("Expected resolver failure to propagate")
	}
	if errors.Is(err, models.ErrPermissionDenied) {
		t.Error("Expected a lookup failure not to look like a denial")
	}
}

func TestCanGrant(t *testing.T) {
	t.Parallel()

	mod := identity.Actor{UserID: 1}
	admin := identity.Actor{UserID: 2, Admin: true}

	tests := []struct {
		name      string
		actor     identity.Actor
		actorRole models.Role
		target    types.UserID
		current   models.Role
		next      models.Role
		want      error
	}{
		{"moderator promotes member to observer", mod, models.RoleModerator, 5, models.RoleMember, models.RoleObserver, nil},
		{"moderator grants member", mod, models.RoleModerator, 5, models.RoleNone, models.RoleMember, nil},
		{"moderator cannot grant moderator", mod, models.RoleModerator, 5, models.RoleMember, models.RoleModerator, ErrRoleTooHigh},
		{"moderator cannot grant owner", mod, models.RoleModerator, 5, models.RoleNone, models.RoleOwner, ErrRoleTooHigh},
		{"moderator cannot demote moderator", mod, models.RoleModerator, 5, models.RoleModerator, models.RoleGuest, ErrTargetOutranks},
		{"nobody edits self", mod, models.RoleModerator, 1, models.RoleModerator, models.RoleGuest, ErrSelfModify},
		{"moderator cannot edit templates", mod, models.RoleModerator, -1, models.RoleNone, models.RoleGuest, ErrTemplateAdmin},
		{"admin edits templates", admin, models.RoleOwner, -1, models.RoleNone, models.RoleGuest, nil},
		{"admin grants moderator", admin, models.RoleNone, 5, models.RoleNone, models.RoleModerator, nil},
		{"admin cannot touch owner", admin, models.RoleNone, 5, models.RoleOwner, models.RoleGuest, ErrTargetOutranks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanGrant(tt.actor, tt.actorRole, tt.target, tt.current, tt.next)
			if !errors.Is(err, tt.want) && !(err == nil && tt.want == nil) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
