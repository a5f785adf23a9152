package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"

	"taskly/internal/config"
	"taskly/internal/exitcode"
	"taskly/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd flips the completion state of a task. The cached copy is left
// alone; with --wait the command blocks until the store echoes the change.
type DoneCmd struct {
	wait bool
}

// SetWait sets whether to wait for the change to arrive (for testing).
func (c *DoneCmd) SetWait(wait bool) {
	c.wait = wait
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task between completed and open" }
func (c *DoneCmd) Usage() string      { return "taskly done [--wait] <ref>" }
func (c *DoneCmd) NeedsBackend() bool { return true }
func (c *DoneCmd) NeedsAuth() bool    { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	c.wait = false
	fs.BoolVar(&c.wait, "wait", false, "")
	fs.BoolVar(&c.wait, "w", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintln(errOut, refError(err))
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
	done, err := coord.ToggleComplete(ctx, sess, task.ID)
	if err != nil {
		return report(errOut, err)
	}

	if c.wait {
		err := coord.WaitFor(ctx, func(tasks []service.Task) bool {
			i := slices.IndexFunc(tasks, func(t service.Task) bool { return t.ID == task.ID })
			return i < 0 || tasks[i].IsCompleted == done
		})
		if err != nil {
			return report(errOut, err)
		}
	}

	if !cfg.Quiet {
		if done {
			fmt.Fprintln(out, "completed")
		} else {
			fmt.Fprintln(out, "reopened")
		}
	}
	return exitcode.Success
}
