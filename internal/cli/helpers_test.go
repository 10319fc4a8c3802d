package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/kanban/internal/models"
)

// ============================================================================
// Label Parsing Tests
// ============================================================================

func TestParseLabels_Valid(t *testing.T) {
	tests := []struct {
		input    string
		expected models.LabelMask
	}{
		{"", 0},
		{"0", 1},
		{"0,3", 1 | 1<<3},
		{" 1 , 2 ", 1<<1 | 1<<2},
		{"63", 1 << 63},
		{"2,2", 1 << 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseLabels(tt.input)
			if err != nil {
				t.Errorf("Expected no error for '%s', got: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("Expected %b for '%s', got %b", tt.expected, tt.input, result)
			}
		})
	}
}

func TestParseLabels_Invalid(t *testing.T) {
	tests := []string{"64", "-1", "red", "1,,2", "1;2"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLabels(input)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("Expected validation error for '%s', got %v", input, err)
			}
		})
	}
}

// ============================================================================
// Flag And Role Parsing Tests
// ============================================================================

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags("done, Locked")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !flags.Has(models.FlagDone | models.FlagLocked) {
		t.Errorf("Expected done and locked, got %s", flags)
	}

	if _, err := ParseFlags("urgent"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Role
	}{
		{"owner", models.RoleOwner},
		{"Moderator", models.RoleModerator},
		{"MEMBER", models.RoleMember},
		{"guest", models.RoleGuest},
		{"blocked", models.RoleBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if err != nil {
				t.Fatalf("Expected no error for '%s', got: %v", tt.input, err)
			}
			if role != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, role)
			}
		})
	}

	if _, err := ParseRole("superuser"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

// ============================================================================
// Content And Confirmation Tests
// ============================================================================

func TestReadContent(t *testing.T) {
	got, err := ReadContent("inline", strings.NewReader("ignored"))
	if err != nil || got != "inline" {
		t.Errorf("Expected inline content, got %q (%v)", got, err)
	}

	got, err = ReadContent("-", strings.NewReader("# Heading\n\nbody\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "# Heading\n\nbody" {
		t.Errorf("Expected stdin content without trailing newline, got %q", got)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Confirm(strings.NewReader(tt.input), "Delete?"); got != tt.expected {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
