package firestoredb

import (
	"fmt"
	"time"

	"taskly/internal/service"
)

// taskDoc is the stored shape of a task. id mirrors the document key.
// dueDate is written as a timestamp but older clients stored strings or
// epoch milliseconds, so it is read loosely.
type taskDoc struct {
	ID          string      `firestore:"id"`
	Title       string      `firestore:"title"`
	Description string      `firestore:"description"`
	DueDate     interface{} `firestore:"dueDate"`
	Priority    string      `firestore:"priority"`
	IsCompleted bool        `firestore:"isCompleted"`
}

// dueLayouts are the string forms accepted for dueDate, tried in order.
var dueLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

// dueTime reads a stored dueDate value. Nil means no due date.
func dueTime(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return d, nil
	case int64:
		return time.UnixMilli(d), nil
	case float64:
		return time.UnixMilli(int64(d)), nil
	case string:
		for _, l := range dueLayouts {
			loc := time.UTC
			if l.local {
				loc = time.Local
			}
			if t, err := time.ParseInLocation(l.layout, d, loc); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized due date %q", d)
	}
	return time.Time{}, fmt.Errorf("unsupported due date type %T", v)
}

// userDoc is the profile written at sign-up.
type userDoc struct {
	Username  string `firestore:"username"`
	Email     string `firestore:"email"`
	CreatedAt string `firestore:"createdAt"`
}

func newTaskDoc(id string, f service.Fields) taskDoc {
	return taskDoc{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		Priority:    string(f.Priority),
		IsCompleted: f.IsCompleted,
	}
}

// task converts a stored document. The key wins over the mirrored id field.
// An unreadable due date is reported but the task is still returned, with
// no due date.
func (d taskDoc) task(key string) (service.Task, error) {
	due, err := dueTime(d.DueDate)
	return service.Task{
		ID:          key,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     due,
		Priority:    service.Priority(d.Priority),
		IsCompleted: d.IsCompleted,
	}, err
}

// patchData builds the merge payload for a partial update.
func patchData(p service.Patch) map[string]interface{} {
	m := make(map[string]interface{})
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.DueDate != nil {
		m["dueDate"] = *p.DueDate
	}
	if p.Priority != nil {
		m["priority"] = string(*p.Priority)
	}
	if p.IsCompleted != nil {
		m["isCompleted"] = *p.IsCompleted
	}
	return m
}
