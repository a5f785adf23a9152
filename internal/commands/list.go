package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskly/internal/config"
	"taskly/internal/exitcode"
	"taskly/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskly` (no args) and `taskly list [flags]`.
type ListCmd struct {
	flags viewFlags
}

// SetSelection sets the filter and sort flags (for testing).
func (c *ListCmd) SetSelection(priority, status, sortBy string, desc bool) {
	c.flags.priority = priority
	c.flags.status = status
	c.flags.sortBy = sortBy
	c.flags.desc = desc
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.flags.format = format
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskly list [--priority <p>] [--status <s>] [--sort <key>] [--desc] [--output <fmt>]"
}
func (c *ListCmd) NeedsBackend() bool { return true }
func (c *ListCmd) NeedsAuth() bool    { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	sel, format, err := c.flags.selection()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	coord, _, err := openBoard(ctx, svc, c.Name())
	if err != nil {
		return report(errOut, err)
	}
	defer coord.Detach()

	if err := output.WriteTasks(out, format, coord.View(sel), cfg.Quiet); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
