package cli

import (
	"testing"

	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/identity"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/testutil"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Actors used by CLI tests. Owner owns every board made by CreateTestBoard.
const (
	Owner  types.UserID = 1
	Member types.UserID = 3
	Guest  types.UserID = 4
)

// SetupCLITest creates a test DB and returns both the DB and App instance
// This function is only for CLI tests and is isolated in a separate package
// to avoid import cycles when service tests import testutil
func SetupCLITest(t *testing.T) (*database.DB, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	// Note: no event publisher - event publishing is tested elsewhere
	appInstance := app.New(db, app.WithLogger(testutil.DiscardLogger()))

	return db, appInstance
}

// TestSecret is the JWT secret IssueToken configures through the environment
const TestSecret = "kanban-test-secret"

// IssueToken sets KANBAN_JWT_SECRET for the test and signs a token for user
// the way `kanban token` would
func IssueToken(t *testing.T, user types.UserID, admin bool) string {
	t.Helper()
	t.Setenv("KANBAN_JWT_SECRET", TestSecret)

	p, err := identity.NewJWTProvider(TestSecret, config.Default().Auth.Issuer, nil)
	if err != nil {
		t.Fatalf("Failed to create token provider: %v", err)
	}
	token, err := p.Issue(identity.Actor{UserID: user, Admin: admin})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// CreateTestBoard creates a board owned by Owner, with Member and Guest
// holding their roles on it
func CreateTestBoard(t *testing.T, db *database.DB, name string) types.BoardID {
	t.Helper()
	id := testutil.CreateTestBoard(t, db, name)
	testutil.GrantTestRole(t, db, id, Owner, models.RoleOwner)
	testutil.GrantTestRole(t, db, id, Member, models.RoleMember)
	testutil.GrantTestRole(t, db, id, Guest, models.RoleGuest)
	return id
}

// CreateTestList wraps testutil.CreateTestList for CLI tests
// Creates a list at the end of the board and returns its ID
func CreateTestList(t *testing.T, db *database.DB, boardID types.BoardID, name string) types.CardListID {
	t.Helper()
	return testutil.CreateTestList(t, db, boardID, name)
}

// CreateTestCard wraps testutil.CreateTestCard for CLI tests
// Creates a card at the end of the list and returns its ID
func CreateTestCard(t *testing.T, db *database.DB, listID types.CardListID, title string) types.CardID {
	t.Helper()
	return testutil.CreateTestCard(t, db, listID, title)
}
