package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"taskly/internal/config"
	"taskly/internal/coordinator"
	"taskly/internal/exitcode"
	"taskly/internal/output"
	"taskly/internal/service"
	"taskly/internal/view"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd prints the derived view again every time the task set changes,
// until interrupted.
type WatchCmd struct {
	flags viewFlags
}

// SetSelection sets the filter and sort flags (for testing).
func (c *WatchCmd) SetSelection(priority, status, sortBy string, desc bool) {
	c.flags.priority = priority
	c.flags.status = status
	c.flags.sortBy = sortBy
	c.flags.desc = desc
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Follow task changes live" }
func (c *WatchCmd) Usage() string {
	return "taskly watch [--priority <p>] [--status <s>] [--sort <key>] [--desc] [--output <fmt>]"
}
func (c *WatchCmd) NeedsBackend() bool { return true }
func (c *WatchCmd) NeedsAuth() bool    { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	sel, format, err := c.flags.selection()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sess, err := svc.Guard.Enter(c.Name())
	if err != nil {
		return report(errOut, err)
	}

	var mu sync.Mutex
	failed := make(chan error, 1)
	render := func(tasks []service.Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed <- err
			return
		}
		if format == output.FormatText {
			output.FormatHeader(out, sel)
		}
		if werr := output.WriteTasks(out, format, view.Derive(tasks, sel), cfg.Quiet); werr != nil {
			svc.logger().Warn("render failed", slog.String("error", werr.Error()))
		}
	}

	coord := coordinator.New(svc.Store, svc.logger())
	if err := coord.Attach(ctx, sess, render); err != nil {
		return report(errOut, err)
	}
	defer coord.Detach()

	select {
	case <-ctx.Done():
		return exitcode.Success
	case err := <-failed:
		if errors.Is(err, context.Canceled) {
			return exitcode.Success
		}
		return report(errOut, err)
	}
}
