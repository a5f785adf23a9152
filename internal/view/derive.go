package view

import (
	"slices"

	"taskly/internal/service"
)

// Derive filters and sorts tasks for display. The input slice is not
// modified. The sort is stable, so tasks that compare equal keep the order
// they had in tasks, and Derive applied to its own output with the same
// selection returns the same list.
//
// Priority sorting counts "ascending" as most urgent first.
func Derive(tasks []service.Task, sel Selection) []service.Task {
	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t, sel) {
			result = append(result, t)
		}
	}

	cmp := comparator(sel.SortBy)
	if cmp == nil {
		return result
	}
	if sel.Direction == Descending {
		asc := cmp
		cmp = func(a, b service.Task) int { return -asc(a, b) }
	}
	slices.SortStableFunc(result, cmp)
	return result
}

func keep(t service.Task, sel Selection) bool {
	if sel.Priority != "" && sel.Priority != PriorityAll && service.Priority(sel.Priority) != t.Priority {
		return false
	}
	switch sel.Status {
	case StatusCompleted:
		return t.IsCompleted
	case StatusIncomplete:
		return !t.IsCompleted
	}
	return true
}

// comparator returns the ascending comparator for key, or nil for an
// unknown key (the view keeps store order).
func comparator(key SortKey) func(a, b service.Task) int {
	switch key {
	case SortDueDate:
		return func(a, b service.Task) int {
			return a.DueDate.Compare(b.DueDate)
		}
	case SortPriority:
		return func(a, b service.Task) int {
			return b.Priority.Weight() - a.Priority.Weight()
		}
	case SortStatus:
		return func(a, b service.Task) int {
			switch {
			case a.IsCompleted == b.IsCompleted:
				return 0
			case a.IsCompleted:
				return 1
			}
			return -1
		}
	}
	return nil
}

// Summarize builds the profile projection from the principal and the live task set.
func Summarize(p service.Principal, tasks []service.Task) service.Profile {
	prof := service.Profile{
		DisplayName: p.DisplayName,
		Email:       p.Email,
		MemberSince: p.CreatedAt,
	}
	for _, t := range tasks {
		if t.IsCompleted {
			prof.Completed++
		} else {
			prof.InProgress++
		}
	}
	return prof
}
