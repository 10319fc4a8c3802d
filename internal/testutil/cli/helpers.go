package cli

import (
	"testing"

	"github.com/thenoetrevino/kanban/internal/testutil"
)

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()
	return testutil.ParseJSON(t, output)
}

// Payload parses a successful JSON response and returns the object stored
// under key
func Payload(t *testing.T, output, key string) map[string]any {
	t.Helper()

	result := testutil.ParseJSON(t, output)
	if result["success"] != true {
		t.Fatalf("Expected success, got: %s", output)
	}
	obj, ok := result[key].(map[string]any)
	if !ok {
		t.Fatalf("Expected an object under %q, got: %s", key, output)
	}
	return obj
}

// ErrorCode parses a failed JSON response and returns its error code
func ErrorCode(t *testing.T, output string) string {
	t.Helper()

	result := testutil.ParseJSON(t, output)
	if result["success"] != false {
		t.Fatalf("Expected failure, got: %s", output)
	}
	errData, ok := result["error"].(map[string]any)
	if !ok {
		t.Fatalf("Expected an error object, got: %s", output)
	}
	code, _ := errData["code"].(string)
	return code
}
