package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskly/internal/config"
	"taskly/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. "help <command>" prints the usage of
// one command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskly help [command]" }
func (c *HelpCmd) NeedsBackend() bool { return false }
func (c *HelpCmd) NeedsAuth() bool    { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "Usage:\n  %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
		}
		return exitcode.Success
	}

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-44s %s\n", "taskly", "List all tasks, earliest due first")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-44s %s\n", usageHead(cmd.Usage()), cmd.Synopsis())
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

// usageHead shortens a usage line to the command and its positional arguments.
func usageHead(usage string) string {
	var kept []string
	skip := false
	for _, f := range strings.Fields(usage) {
		switch {
		case skip:
			skip = !strings.HasSuffix(f, "]")
		case strings.HasPrefix(f, "[-"):
			skip = !strings.HasSuffix(f, "]")
		default:
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

const helpFooter = `
A <ref> is a task number from the default listing or a task id.
The password is read from --password, $TASKLY_PASSWORD or stdin.
Run "taskly help <command>" for the flags of one command.

View flags:
  --priority <all|low|medium|high>
  --status <all|completed|incomplete>
  --sort <dueDate|priority|status>
  --desc           Reverse the sort order
  --output <text|json|yaml>

Task flags:
  --description <text>
  --due <YYYY-MM-DD|today|tomorrow>
  --priority <low|medium|high>

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
