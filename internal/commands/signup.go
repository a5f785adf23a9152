package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskly/internal/config"
	"taskly/internal/exitcode"
	"taskly/internal/service"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd creates an account, signs in and stores the user profile.
type SignupCmd struct {
	username string
	email    string
	password string
}

// SetCredentials sets the account fields (for testing).
func (c *SignupCmd) SetCredentials(username, email, password string) {
	c.username = username
	c.email = email
	c.password = password
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "taskly signup --name <username> --email <email> [--password <password>]"
}
func (c *SignupCmd) NeedsBackend() bool { return true }
func (c *SignupCmd) NeedsAuth() bool    { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	c.username, c.email, c.password = "", "", ""
	fs.StringVar(&c.username, "name", "", "")
	fs.StringVar(&c.username, "n", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc *Services, args []string, out, errOut io.Writer) int {
	username := strings.TrimSpace(c.username)
	email := strings.TrimSpace(c.email)
	password, err := readPassword(svc.In, c.password, errOut, cfg.Quiet)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := service.ValidateSignUp(username, email, password); err != nil {
		return report(errOut, err)
	}

	p, err := svc.Auth.SignUp(ctx, email, password, username)
	if err != nil {
		return report(errOut, err)
	}
	svc.Guard.SignedIn(p)

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	rec := service.UserRecord{Username: username, Email: email, CreatedAt: created}
	if err := svc.Store.SaveProfile(ctx, p.UserID, rec); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
