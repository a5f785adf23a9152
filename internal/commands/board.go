package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"taskly/internal/coordinator"
	"taskly/internal/output"
	"taskly/internal/service"
	"taskly/internal/session"
	"taskly/internal/view"
)

// openBoard enters the task view, attaches a coordinator and waits for
// the first snapshot. The caller must Detach.
func openBoard(ctx context.Context, svc *Services, viewName string) (*coordinator.Coordinator, session.Session, error) {
	sess, err := svc.Guard.Enter(viewName)
	if err != nil {
		return nil, session.Session{}, err
	}
	coord := coordinator.New(svc.Store, svc.logger())
	if err := coord.Attach(ctx, sess, nil); err != nil {
		return nil, session.Session{}, err
	}
	if err := coord.WaitReady(ctx); err != nil {
		coord.Detach()
		return nil, session.Session{}, err
	}
	return coord, sess, nil
}

// viewFlags are the filter, sort and format flags shared by list and watch.
type viewFlags struct {
	priority string
	status   string
	sortBy   string
	desc     bool
	format   string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	*v = viewFlags{}
	fs.StringVar(&v.priority, "priority", string(view.PriorityAll), "")
	fs.StringVar(&v.priority, "p", string(view.PriorityAll), "")
	fs.StringVar(&v.status, "status", string(view.StatusAll), "")
	fs.StringVar(&v.status, "s", string(view.StatusAll), "")
	fs.StringVar(&v.sortBy, "sort", string(view.SortDueDate), "")
	fs.BoolVar(&v.desc, "desc", false, "")
	fs.StringVar(&v.format, "output", string(output.FormatText), "")
	fs.StringVar(&v.format, "o", string(output.FormatText), "")
}

// selection turns the flags into a view selection. Unset flags select the
// default view.
func (v viewFlags) selection() (view.Selection, output.Format, error) {
	sel := view.DefaultSelection()
	var err error
	if v.priority != "" {
		if sel.Priority, err = view.ParsePriorityFilter(v.priority); err != nil {
			return sel, "", err
		}
	}
	if v.status != "" {
		if sel.Status, err = view.ParseStatusFilter(v.status); err != nil {
			return sel, "", err
		}
	}
	if v.sortBy != "" {
		if sel.SortBy, err = view.ParseSortKey(v.sortBy); err != nil {
			return sel, "", err
		}
	}
	if v.desc {
		sel.Direction = view.Descending
	}
	format := output.FormatText
	if v.format != "" {
		if format, err = output.ParseFormat(v.format); err != nil {
			return sel, "", err
		}
	}
	return sel, format, nil
}

// optString is a string flag that remembers whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// parseDue parses a due date given as YYYY-MM-DD (local midnight), an
// RFC 3339 timestamp, "today" or "tomorrow".
func parseDue(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	y, m, d := now.Date()
	switch strings.ToLower(s) {
	case "today":
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "tomorrow":
		return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()), nil
	}
	if t, err := time.ParseInLocation(output.DateLayout, s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, &service.ValidationError{Field: "dueDate", Message: fmt.Sprintf("invalid due date: %s", s)}
}
