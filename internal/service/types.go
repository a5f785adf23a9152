package service

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority parses a priority name (case-insensitive, trimmed).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Weight maps a priority to its sort weight. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Task represents a single task in a user's collection.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	IsCompleted bool
}

// Fields returns the mutable fields of the task.
func (t Task) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		IsCompleted: t.IsCompleted,
	}
}

// Fields holds every mutable task field. It is the payload of create and
// full-overwrite update.
type Fields struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	IsCompleted bool
}

// NewFields returns the defaults for a freshly created task:
// high priority, due now, not completed.
func NewFields(title string, now time.Time) Fields {
	return Fields{
		Title:    title,
		DueDate:  now,
		Priority: PriorityHigh,
	}
}

// Patch is a partial update. Nil fields are left untouched by a merge.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	IsCompleted *bool
}

// Empty reports whether the patch sets no field.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.IsCompleted == nil
}

// Apply returns f with the patch's set fields overlaid.
func (p Patch) Apply(f Fields) Fields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.DueDate != nil {
		f.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.IsCompleted != nil {
		f.IsCompleted = *p.IsCompleted
	}
	return f
}

// Principal is a signed-in user as reported by the auth provider.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// UserRecord is the profile document stored at users/{uid} on sign-up.
type UserRecord struct {
	Username  string
	Email     string
	CreatedAt time.Time
}

// Profile is the read-only account projection shown by the profile view.
type Profile struct {
	DisplayName string
	Email       string
	MemberSince time.Time
	Completed   int
	InProgress  int
}
