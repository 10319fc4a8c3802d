package use

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/kanban/internal/cli"
	clitest "github.com/thenoetrevino/kanban/internal/testutil/cli"
)

func TestUseBoard_Export(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	board := clitest.CreateTestBoard(t, db, "Board")

	output, err := clitest.ExecuteCLICommand(t, app, BoardCmd(),
		[]string{board.String(), "--user", clitest.Guest.String()})
	require.NoError(t, err)
	assert.Equal(t, "export KANBAN_BOARD="+board.String(), strings.TrimSpace(output))
}

func TestUseBoard_DryRun(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	board := clitest.CreateTestBoard(t, db, "Board")

	output, err := clitest.ExecuteCLICommand(t, app, BoardCmd(),
		[]string{board.String(), "--dry-run", "--user", clitest.Guest.String()})
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(output))
}

func TestUseBoard_Errors(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	board := clitest.CreateTestBoard(t, db, "Board")

	t.Run("no board", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, BoardCmd(), []string{"--user", clitest.Guest.String()})
		require.Error(t, err)
		assert.Equal(t, cli.ExitUsage, cli.ExitCodeFor(err))
	})

	t.Run("board the caller cannot see", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, BoardCmd(), []string{board.String(), "--user", "42"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitPermission, cli.ExitCodeFor(err))
		assert.NotContains(t, output, "export")
	})
}

func TestUseBoard_ClearAndShow(t *testing.T) {
	_, app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, BoardCmd(), []string{"--clear"})
	require.NoError(t, err)
	assert.Equal(t, "unset KANBAN_BOARD", strings.TrimSpace(output))

	output, err = clitest.ExecuteCLICommand(t, app, BoardCmd(), []string{"--show"})
	require.NoError(t, err)
	assert.Contains(t, output, "No board context set")
}
