package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskly/internal/config"
	"taskly/internal/exitcode"
	"taskly/internal/service"
)

// PasswordEnv supplies the password when no flag is given.
const PasswordEnv = "TASKLY_PASSWORD"

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the email and password (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Sign in with email and password" }
func (c *LoginCmd) Usage() string      { return "taskly login --email <email> [--password <password>]" }
func (c *LoginCmd) NeedsBackend() bool { return true }
func (c *LoginCmd) NeedsAuth() bool    { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	c.email, c.password = "", ""
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	if p, ok := svc.Auth.CurrentPrincipal(); ok {
		if !cfg.Quiet {
			fmt.Fprintf(out, "already logged in as %s\n", p.Email)
		}
		return exitcode.Success
	}

	email := strings.TrimSpace(c.email)
	if email == "" && len(args) > 0 {
		email = strings.TrimSpace(args[0])
	}
	password, err := readPassword(svc.In, c.password, errOut, cfg.Quiet)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := service.ValidateCredentials(email, password); err != nil {
		return report(errOut, err)
	}

	p, err := svc.Auth.SignIn(ctx, email, password)
	if err != nil {
		return report(errOut, err)
	}
	svc.Guard.SignedIn(p)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// readPassword returns the flag value, then $TASKLY_PASSWORD, then the
// first line of in.
func readPassword(in io.Reader, flagValue string, errOut io.Writer, quiet bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(PasswordEnv); env != "" {
		return env, nil
	}
	if in == nil {
		return "", nil
	}
	if !quiet {
		fmt.Fprint(errOut, "Password: ")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
