package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// FormatterFor reads the --json and --quiet flags of cmd
func FormatterFor(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// Success writes {"success": true, key: data} to stdout
func (f *OutputFormatter) Success(key string, data any) error {
	return json.NewEncoder(os.Stdout).Encode(map[string]any{
		"success": true,
		key:       data,
	})
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(os.Stderr, "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// reportedError marks an error Fail has already written out
type reportedError struct{ error }

func (r reportedError) Unwrap() error { return r.error }

// IsReported reports whether err went through Fail
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Reported marks err as already written out, for commands that describe a
// failure in their own payload
func Reported(err error) error {
	return reportedError{err}
}

// Fail reports err in the formatter's mode and returns it, marked as
// reported, so the caller can hand it back to cobra. The exit code is
// derived from it in main.
func (f *OutputFormatter) Fail(err error, suggestion ...string) error {
	var hint string
	if len(suggestion) > 0 {
		hint = suggestion[0]
	} else {
		hint = suggestionFor(err)
	}
	if fmtErr := f.ErrorWithSuggestion(ErrorCode(err), err.Error(), hint); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
	return reportedError{err}
}

func suggestionFor(err error) string {
	switch ErrorCode(err) {
	case "PERMISSION_DENIED":
		return "Ask a board owner or moderator to grant you a role: kanban perm grant"
	case "CHAIN_INTEGRITY":
		return "Inspect the board with: kanban verify --board <id>"
	case "CONNECTION_ERROR":
		return "Check database.dsn in your config or KANBAN_DB_DSN"
	case "USAGE_ERROR":
		return "Run the command with --help for usage"
	default:
		return ""
	}
}
