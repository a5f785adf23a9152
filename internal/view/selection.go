// Package view derives the displayed task list from the raw task set and the
// user's filter and sort selection.
package view

import (
	"fmt"
	"strings"

	"taskly/internal/service"
)

// PriorityFilter restricts the view to one priority, or to all of them.
type PriorityFilter string

// PriorityAll keeps every priority.
const PriorityAll PriorityFilter = "all"

// StatusFilter restricts the view by completion.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusIncomplete StatusFilter = "incomplete"
)

// SortKey selects the comparator.
type SortKey string

const (
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
	SortStatus   SortKey = "status"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Selection is the ephemeral filter and sort state of a task view.
type Selection struct {
	Priority  PriorityFilter
	Status    StatusFilter
	SortBy    SortKey
	Direction Direction
}

// DefaultSelection is the state a view starts in: everything, earliest due first.
func DefaultSelection() Selection {
	return Selection{
		Priority:  PriorityAll,
		Status:    StatusAll,
		SortBy:    SortDueDate,
		Direction: Ascending,
	}
}

// ToggleSort applies a sort choice. Choosing the current key flips the
// direction; choosing another key switches to it in ascending order.
func (s Selection) ToggleSort(key SortKey) Selection {
	if s.SortBy == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return s
	}
	s.SortBy = key
	s.Direction = Ascending
	return s
}

// ParsePriorityFilter parses "all" or a priority name.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == string(PriorityAll) {
		return PriorityAll, nil
	}
	p, err := service.ParsePriority(v)
	if err != nil {
		return "", fmt.Errorf("invalid priority filter: %s", s)
	}
	return PriorityFilter(p), nil
}

// ParseStatusFilter parses all, completed or incomplete.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch v := StatusFilter(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusAll, StatusCompleted, StatusIncomplete:
		return v, nil
	}
	return "", fmt.Errorf("invalid status filter: %s", s)
}

// ParseSortKey parses dueDate, priority or status (case-insensitive).
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "duedate", "due":
		return SortDueDate, nil
	case "priority":
		return SortPriority, nil
	case "status":
		return SortStatus, nil
	}
	return "", fmt.Errorf("invalid sort key: %s", s)
}
