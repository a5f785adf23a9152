package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"taskly/internal/commands"
	"taskly/internal/config"
	"taskly/internal/exitcode"
	"taskly/internal/service"
	"taskly/internal/session"
)

// DefaultCommand runs when no arguments are given.
const DefaultCommand = "list"

// BackendFactory connects the auth provider and task store for cfg.
type BackendFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*commands.Services, error)

// Dispatcher parses the command line and runs one command.
type Dispatcher struct {
	registry *commands.Registry
	factory  BackendFactory

	// In is handed to commands that prompt for input.
	In io.Reader
}

// NewDispatcher creates a dispatcher over registry. factory may be nil when
// only local commands are run.
func NewDispatcher(registry *commands.Registry, factory BackendFactory) *Dispatcher {
	return &Dispatcher{registry: registry, factory: factory}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run dispatches args and returns the process exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := DefaultCommand
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	// Flags are only accepted after the command name.
	cmd, ok := d.registry.Find(name)
	if !ok || strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(errOut, err)
	}
	rest := fs.Args()
	if len(rest) > 0 && strings.HasPrefix(rest[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", rest[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = cfg.Debug || common.debug
	logger := NewLogger(errOut, cfg.Debug)

	if !cmd.NeedsBackend() {
		return cmd.Run(ctx, cfg, nil, rest, out, errOut)
	}

	svc, code := d.connect(ctx, cfg, logger, errOut)
	if svc == nil {
		return code
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Debug("closing backend", slog.String("error", err.Error()))
		}
	}()

	if cmd.NeedsAuth() {
		if _, err := svc.Guard.Enter(cmd.Name()); err != nil {
			var redirect *session.RedirectError
			if errors.As(err, &redirect) {
				fmt.Fprintf(errOut, "error: not logged in (run: taskly %s)\n", redirect.To)
			} else {
				fmt.Fprintf(errOut, "error: %s\n", err)
			}
			return exitcode.AuthError
		}
	}

	return cmd.Run(ctx, cfg, svc, rest, out, errOut)
}

// connect builds the services for a backend command and restores the
// session guard from the provider's persisted principal.
func (d *Dispatcher) connect(ctx context.Context, cfg *config.Config, logger *slog.Logger, errOut io.Writer) (*commands.Services, int) {
	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return nil, exitcode.AuthError
	}
	svc, err := d.factory(ctx, cfg, logger)
	if err != nil {
		if service.KindOf(err) == service.KindStoreUnavailable {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return nil, exitcode.BackendError
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.AuthError
	}

	if svc.Logger == nil {
		svc.Logger = logger
	}
	if svc.In == nil {
		svc.In = d.In
	}
	if svc.Guard == nil {
		svc.Guard = session.NewGuard(logger)
		if p, ok := svc.Auth.CurrentPrincipal(); ok {
			svc.Guard.SignedIn(p)
		}
	}
	return svc, exitcode.Success
}

// flagError rewrites the flag package's messages into the CLI's wording.
func flagError(errOut io.Writer, err error) int {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		name := msg[strings.LastIndex(msg, ":")+1:]
		msg = "flag needs an argument: " + strings.TrimSpace(name)
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		msg = "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return exitcode.UserError
}

// NewLogger returns the CLI logger: text records on w, debug records only
// when debug is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
