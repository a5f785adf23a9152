// Package main is the entry point for the taskly CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskly/internal/backend/firestoredb"
	"taskly/internal/backend/identity"
	"taskly/internal/cli"
	"taskly/internal/commands"
	"taskly/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, openBackend)
	dispatcher.In = os.Stdin

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// openBackend signs requests to the task database with the identity
// provider's session tokens.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*commands.Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	auth, err := identity.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := firestoredb.New(ctx, cfg, auth.TokenSource(ctx), logger)
	if err != nil {
		return nil, err
	}
	return &commands.Services{Auth: auth, Store: store}, nil
}
