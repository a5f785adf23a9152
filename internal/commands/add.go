package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskly/internal/config"
	"taskly/internal/coordinator"
	"taskly/internal/exitcode"
	"taskly/internal/service"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// addFlags are the optional fields of a new task.
type addFlags struct {
	description string
	due         string
	priority    string
}

func (a *addFlags) register(fs *flag.FlagSet) {
	*a = addFlags{}
	fs.StringVar(&a.description, "description", "", "")
	fs.StringVar(&a.description, "d", "", "")
	fs.StringVar(&a.due, "due", "", "")
	fs.StringVar(&a.priority, "priority", "", "")
	fs.StringVar(&a.priority, "p", "", "")
}

// AddCmd implements the add command.
type AddCmd struct {
	flags addFlags
	now   func() time.Time
}

// SetFields sets the optional task fields (for testing).
func (c *AddCmd) SetFields(description, due, priority string) {
	c.flags = addFlags{description: description, due: due, priority: priority}
}

// SetClock overrides the time used for the default due date (for testing).
func (c *AddCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskly add [--description <text>] [--due <date>] [--priority <p>] <title...>"
}
func (c *AddCmd) NeedsBackend() bool { return true }
func (c *AddCmd) NeedsAuth() bool    { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.flags, clock(c.now), args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	flags addFlags
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string {
	return "taskly create [--description <text>] [--due <date>] [--priority <p>] <title...>"
}
func (c *CreateCmd) NeedsBackend() bool { return true }
func (c *CreateCmd) NeedsAuth() bool    { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.flags, time.Now, args, out, errOut)
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// runAdd is the shared implementation for add and create commands.
// A new task starts incomplete, high priority and due now.
func runAdd(ctx context.Context, cfg *config.Config, svc *Services, flags addFlags, now func() time.Time, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	fields := service.NewFields(title, now())
	fields.Description = flags.description
	if flags.due != "" {
		due, err := parseDue(flags.due, now())
		if err != nil {
			return report(errOut, err)
		}
		fields.DueDate = due
	}
	if flags.priority != "" {
		p, err := service.ParsePriority(flags.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		fields.Priority = p
	}

	sess, err := svc.Guard.Enter("add")
	if err != nil {
		return report(errOut, err)
	}
	coord := coordinator.New(svc.Store, svc.logger())
	id, err := coord.AddTask(ctx, sess, fields)
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", id)
	}
	return exitcode.Success
}
