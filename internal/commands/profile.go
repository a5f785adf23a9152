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
	Register(&ProfileCmd{})
}

// ProfileCmd shows the signed-in account and its task counts.
type ProfileCmd struct{}

func (c *ProfileCmd) Name() string       { return "profile" }
func (c *ProfileCmd) Aliases() []string  { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string   { return "Show account and task counts" }
func (c *ProfileCmd) Usage() string      { return "taskly profile" }
func (c *ProfileCmd) NeedsBackend() bool { return true }
func (c *ProfileCmd) NeedsAuth() bool    { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	coord, sess, err := openBoard(ctx, svc, c.Name())
	if err != nil {
		return report(errOut, err)
	}
	defer coord.Detach()

	p, err := coord.Profile(sess)
	if err != nil {
		return report(errOut, err)
	}
	output.FormatProfile(out, p)
	return exitcode.Success
}
