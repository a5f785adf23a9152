package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskly/internal/coordinator"
	"taskly/internal/service"
	"taskly/internal/view"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	TaskNum int    // 1-based position in the default view, 0 if ID is set
	ID      string // literal task id
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. No args → error: task reference required
// 2. First arg all digits → position in the default view (due date ascending)
// 3. Otherwise the first arg is taken as a task id
// 4. More than one arg → error: invalid task reference
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", strings.Join(args, " "))
	}

	first := strings.TrimSpace(args[0])
	if first == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{TaskNum: num}, nil
	}

	if strings.ContainsAny(first, "/ \t") {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
	}
	return TaskRef{ID: first}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef finds the cached task a reference points at. Numbers
// index the default view, the same numbering a plain list prints.
func ResolveTaskRef(coord *coordinator.Coordinator, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		t, ok := coord.Lookup(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("%w: %s", service.ErrNotFound, ref.ID)
		}
		return t, nil
	}
	tasks := coord.View(view.DefaultSelection())
	if ref.TaskNum < 1 || ref.TaskNum > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: task number out of range: %d", service.ErrNotFound, ref.TaskNum)
	}
	return tasks[ref.TaskNum-1], nil
}

// refError prints a task reference parse error.
func refError(err error) string {
	if errors.Is(err, ErrTaskRefRequired) {
		return "error: task reference required"
	}
	return fmt.Sprintf("error: %v", err)
}
