package service

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Field
}

func TestValidateFields(t *testing.T) {
	ok := NewFields("Buy milk", time.Now())
	if err := ValidateFields(ok); err != nil {
		t.Errorf("expected valid fields, got %v", err)
	}

	blank := ok
	blank.Title = " \t\n"
	if field := fieldOf(t, ValidateFields(blank)); field != "title" {
		t.Errorf("expected title error, got %s", field)
	}

	badPriority := ok
	badPriority.Priority = "urgent"
	if field := fieldOf(t, ValidateFields(badPriority)); field != "priority" {
		t.Errorf("expected priority error, got %s", field)
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		email, password string
		field, message  string
	}{
		{"", "secret1", "email", "Email is required"},
		{"alice", "secret1", "email", "Email is invalid"},
		{"alice@example", "secret1", "email", "Email is invalid"},
		{"alice@example.com", "", "password", "Password is required"},
		{"alice@example.com", "12345", "password", "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		err := ValidateCredentials(tt.email, tt.password)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%q/%q: expected ValidationError, got %v", tt.email, tt.password, err)
			continue
		}
		if verr.Field != tt.field || verr.Message != tt.message {
			t.Errorf("%q/%q: expected %s %q, got %s %q", tt.email, tt.password, tt.field, tt.message, verr.Field, verr.Message)
		}
	}

	if err := ValidateCredentials("alice@example.com", "123456"); err != nil {
		t.Errorf("expected six characters to pass, got %v", err)
	}
}

func TestValidateSignUp(t *testing.T) {
	if field := fieldOf(t, ValidateSignUp("  ", "alice@example.com", "secret1")); field != "username" {
		t.Errorf("expected username error, got %s", field)
	}
	if field := fieldOf(t, ValidateSignUp("alice", "nope", "secret1")); field != "email" {
		t.Errorf("expected email error, got %s", field)
	}
	if err := ValidateSignUp("alice", "alice@example.com", "secret1"); err != nil {
		t.Errorf("expected valid sign-up, got %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	for _, s := range []string{"low", " Medium ", "HIGH"} {
		p, err := ParsePriority(s)
		if err != nil {
			t.Errorf("ParsePriority(%q) failed: %v", s, err)
		}
		if p != Priority(strings.ToLower(strings.TrimSpace(s))) {
			t.Errorf("ParsePriority(%q) = %q", s, p)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestPriorities_ValidAndOrdered(t *testing.T) {
	for i, p := range Priorities {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
		if i > 0 && p.Weight() <= Priorities[i-1].Weight() {
			t.Errorf("%q should weigh more than %q", p, Priorities[i-1])
		}
	}
	for _, p := range []Priority{"", "urgent", "High"} {
		if p.Valid() {
			t.Errorf("%q should not be valid", p)
		}
	}
}

func TestPriorityWeight(t *testing.T) {
	if !(PriorityHigh.Weight() > PriorityMedium.Weight() && PriorityMedium.Weight() > PriorityLow.Weight()) {
		t.Error("expected high > medium > low")
	}
	if Priority("urgent").Weight() != 0 {
		t.Error("expected unknown priority to weigh 0")
	}
}

func TestNewFields_Defaults(t *testing.T) {
	now := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	f := NewFields("Task", now)
	if f.Priority != PriorityHigh || !f.DueDate.Equal(now) || f.IsCompleted || f.Description != "" {
		t.Errorf("unexpected defaults: %+v", f)
	}
}

func TestPatch(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("expected zero patch to be empty")
	}

	done := true
	desc := ""
	p := Patch{IsCompleted: &done, Description: &desc}
	if p.Empty() {
		t.Error("expected patch to be non-empty")
	}

	before := Fields{Title: "Keep", Description: "drop me", Priority: PriorityLow}
	after := p.Apply(before)
	if after.Title != "Keep" || after.Priority != PriorityLow {
		t.Errorf("unset fields must be kept: %+v", after)
	}
	if after.Description != "" || !after.IsCompleted {
		t.Errorf("set fields must be applied: %+v", after)
	}
	if before.Description != "drop me" {
		t.Error("Apply must not modify its input")
	}
}
