// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"taskly/internal/service"
	"taskly/internal/view"
)

const (
	// ListSeparator is the separator line for view headers.
	ListSeparator = "------------"

	// DateLayout is how due dates are printed and parsed.
	DateLayout = "2006-01-02"
)

// Format is an output encoding for task lists.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses text, json or yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format: %s", s)
}

// PriorityLabel returns the display label of a priority, e.g. "High".
func PriorityLabel(p service.Priority) string {
	if p == "" {
		return "-"
	}
	return cases.Title(language.English).String(string(p))
}

// FormatTask formats one task line.
// Format: "{N:>4}  [x] {TITLE}  {DUE}  {PRIORITY}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	box := "[ ]"
	if task.IsCompleted {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s  %s  %s\n", num, box, normalizeTitle(task.Title), formatDate(task), PriorityLabel(task.Priority))
}

// FormatHeader formats a view header describing the selection.
func FormatHeader(w io.Writer, sel view.Selection) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "priority: %s  status: %s  sort: %s %s\n", sel.Priority, sel.Status, sel.SortBy, sel.Direction)
	fmt.Fprintln(w, ListSeparator)
}

// taskRecord is the structured (json/yaml) shape of a listed task.
type taskRecord struct {
	Number      int    `json:"number" yaml:"number"`
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DueDate     string `json:"dueDate" yaml:"dueDate"`
	Priority    string `json:"priority" yaml:"priority"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted"`
}

// WriteTasks writes tasks in the given format. Text output prints
// "no tasks found" for an empty list unless quiet is set.
func WriteTasks(w io.Writer, format Format, tasks []service.Task, quiet bool) error {
	switch format {
	case FormatJSON, FormatYAML:
		records := make([]taskRecord, len(tasks))
		for i, t := range tasks {
			records[i] = taskRecord{
				Number:      i + 1,
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				DueDate:     formatDate(t),
				Priority:    string(t.Priority),
				IsCompleted: t.IsCompleted,
			}
		}
		if format == FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(w, "no tasks found")
		}
		return nil
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
	return nil
}

// FormatTaskDetail formats a single task with all fields.
func FormatTaskDetail(w io.Writer, task service.Task) {
	status := "Incomplete"
	if task.IsCompleted {
		status = "Complete"
	}
	fmt.Fprintf(w, "ID:           %s\n", task.ID)
	fmt.Fprintf(w, "Title:        %s\n", normalizeTitle(task.Title))
	if task.Description != "" {
		fmt.Fprintf(w, "Description:  %s\n", task.Description)
	}
	fmt.Fprintf(w, "Due:          %s\n", formatDate(task))
	fmt.Fprintf(w, "Priority:     %s\n", PriorityLabel(task.Priority))
	fmt.Fprintf(w, "Status:       %s\n", status)
}

// FormatProfile formats the account projection.
func FormatProfile(w io.Writer, p service.Profile) {
	name := p.DisplayName
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	email := p.Email
	if email == "" {
		email = "Not available"
	}
	since := "Unknown"
	if !p.MemberSince.IsZero() {
		since = p.MemberSince.Format(DateLayout)
	}
	fmt.Fprintf(w, "Name:          %s\n", name)
	fmt.Fprintf(w, "Email:         %s\n", email)
	fmt.Fprintf(w, "Member since:  %s\n", since)
	fmt.Fprintf(w, "Completed:     %d\n", p.Completed)
	fmt.Fprintf(w, "In progress:   %d\n", p.InProgress)
}

func formatDate(t service.Task) string {
	if t.DueDate.IsZero() {
		return "-"
	}
	return t.DueDate.Local().Format(DateLayout)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
