package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskly/internal/config"
	"taskly/internal/exitcode"
	"taskly/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd overwrites the fields of an existing task. Only the given flags
// change; the rest are carried over from the cached task.
type EditCmd struct {
	title       optString
	description optString
	due         optString
	priority    optString
	now         func() time.Time
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(s string) { _ = c.title.Set(s) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(s string) { _ = c.description.Set(s) }

// SetDue sets the new due date (for testing).
func (c *EditCmd) SetDue(s string) { _ = c.due.Set(s) }

// SetPriority sets the new priority (for testing).
func (c *EditCmd) SetPriority(s string) { _ = c.priority.Set(s) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskly edit [--title <text>] [--description <text>] [--due <date>] [--priority <p>] <ref>"
}
func (c *EditCmd) NeedsBackend() bool { return true }
func (c *EditCmd) NeedsAuth() bool    { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{now: c.now}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintln(errOut, refError(err))
		return exitcode.UserError
	}

	patch, err := c.patch()
	if err != nil {
		return report(errOut, err)
	}
	if patch.Empty() {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	coord, sess, err := openBoard(ctx, svc, c.Name())
	if err != nil {
		return report(errOut, err)
	}
	defer coord.Detach()

	task, err := ResolveTaskRef(coord, ref)
	if err != nil {
		return report(errOut, err)
	}
	if err := coord.EditTask(ctx, sess, task.ID, patch.Apply(task.Fields())); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// patch collects the flags that were given.
func (c *EditCmd) patch() (service.Patch, error) {
	var p service.Patch
	if c.title.set {
		p.Title = &c.title.value
	}
	if c.description.set {
		p.Description = &c.description.value
	}
	if c.due.set {
		due, err := parseDue(c.due.value, clock(c.now)())
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if c.priority.set {
		pr, err := service.ParsePriority(c.priority.value)
		if err != nil {
			return p, &service.ValidationError{Field: "priority", Message: err.Error()}
		}
		p.Priority = &pr
	}
	return p, nil
}
