package cli

import (
	"errors"

	"github.com/thenoetrevino/kanban/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Transaction failures, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Board, list, card or permission IDs that don't exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable content input or data that cannot be processed.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty names, bad anchors, unknown roles or flags.
	ExitValidation = 5

	// ExitPermission indicates the caller lacks the required board role.
	ExitPermission = 6

	// ExitIntegrity indicates a broken list or card chain.
	ExitIntegrity = 7

	// ExitUnavailable indicates the database could not be reached.
	ExitUnavailable = 8
)

// ErrUsage marks errors caused by how a command was invoked
var ErrUsage = errors.New("usage error")

// ExitCodeFor maps an error returned by a command to its exit code
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrUsage) || errors.Is(err, ErrNoActor) {
		return ExitUsage
	}
	switch models.KindOf(err) {
	case models.KindValidation:
		return ExitValidation
	case models.KindNotFound:
		return ExitNotFound
	case models.KindPermissionDenied:
		return ExitPermission
	case models.KindChainIntegrity:
		return ExitIntegrity
	case models.KindConnection:
		return ExitUnavailable
	default:
		return ExitError
	}
}

// ErrorCode returns the machine-readable code reported for err
func ErrorCode(err error) string {
	if errors.Is(err, ErrUsage) || errors.Is(err, ErrNoActor) {
		return "USAGE_ERROR"
	}
	switch models.KindOf(err) {
	case models.KindValidation:
		return "VALIDATION_ERROR"
	case models.KindNotFound:
		return "NOT_FOUND"
	case models.KindPermissionDenied:
		return "PERMISSION_DENIED"
	case models.KindChainIntegrity:
		return "CHAIN_INTEGRITY"
	case models.KindConnection:
		return "CONNECTION_ERROR"
	case models.KindTransaction:
		return "TRANSACTION_ERROR"
	default:
		return "ERROR"
	}
}
