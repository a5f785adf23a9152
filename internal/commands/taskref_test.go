package commands

import (
	"errors"
	"testing"
)

func TestParseTaskRef_NumericOnly(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "" {
		t.Errorf("expected empty ID, got %q", ref.ID)
	}
	if ref.TaskNum != 5 {
		t.Errorf("expected TaskNum 5, got %d", ref.TaskNum)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"kX3fP9aQ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "kX3fP9aQ" {
		t.Errorf("expected ID kX3fP9aQ, got %q", ref.ID)
	}
	if ref.TaskNum != 0 {
		t.Errorf("expected TaskNum 0, got %d", ref.TaskNum)
	}
}

func TestParseTaskRef_MixedDigitsIsID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"12a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "12a" {
		t.Errorf("expected ID 12a, got %q", ref.ID)
	}
}

func TestParseTaskRef_NoArgs(t *testing.T) {
	_, err := ParseTaskRef(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_Blank(t *testing.T) {
	_, err := ParseTaskRef([]string{"  "})
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_TooManyArgs(t *testing.T) {
	_, err := ParseTaskRef([]string{"a", "3"})
	if err == nil {
		t.Fatal("expected error for two args")
	}
	expectedMsg := "invalid task reference: a 3"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_PathIsInvalid(t *testing.T) {
	_, err := ParseTaskRef([]string{"users/u1"})
	if err == nil {
		t.Fatal("expected error for path-like ref")
	}
	expectedMsg := "invalid task reference: users/u1"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"0", true},
		{"123", true},
		{"12a", false},
		{"a12", false},
		{"-1", false},
		{"１２", false}, // full-width digits
	}

	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestRefError(t *testing.T) {
	if got := refError(ErrTaskRefRequired); got != "error: task reference required" {
		t.Errorf("unexpected message: %q", got)
	}
	_, err := ParseTaskRef([]string{"a", "b"})
	if got := refError(err); got != "error: invalid task reference: a b" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestUsageHead(t *testing.T) {
	tests := []struct {
		usage    string
		expected string
	}{
		{"taskly rm <ref>", "taskly rm <ref>"},
		{"taskly done [--wait] <ref>", "taskly done <ref>"},
		{"taskly add [--description <text>] [--due <date>] [--priority <p>] <title...>", "taskly add <title...>"},
		{"taskly login --email <email> [--password <password>]", "taskly login --email <email>"},
		{"taskly help [command]", "taskly help [command]"},
	}

	for _, tt := range tests {
		if got := usageHead(tt.usage); got != tt.expected {
			t.Errorf("usageHead(%q): expected %q, got %q", tt.usage, tt.expected, got)
		}
	}
}
