// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"

	"taskly/internal/config"
	"taskly/internal/service"
	"taskly/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsBackend returns true if the command talks to the auth provider
	// or the task store. Commands like help and version return false.
	NeedsBackend() bool

	// NeedsAuth returns true if the command requires a signed-in user.
	// The dispatcher redirects to login before Run when nobody is signed in.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// svc is nil if NeedsBackend() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int
}

// Services is what a backend command runs against.
type Services struct {
	Auth   service.Auth
	Store  service.Store
	Guard  *session.Guard
	Logger *slog.Logger

	// In supplies passwords that were not given as flags.
	In io.Reader
}

// Close releases the backend clients that hold connections.
func (s *Services) Close() error {
	if c, ok := s.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Services) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
