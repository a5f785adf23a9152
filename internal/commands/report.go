package commands

import (
	"errors"
	"fmt"
	"io"

	"taskly/internal/exitcode"
	"taskly/internal/service"
	"taskly/internal/session"
)

// report prints err the way the CLI presents each error kind and returns
// the matching exit code.
func report(errOut io.Writer, err error) int {
	switch service.KindOf(err) {
	case service.KindValidation, service.KindNotFound:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case service.KindNotAuthenticated:
		fmt.Fprintf(errOut, "error: not logged in (run: taskly %s)\n", loginHint(err))
		return exitcode.AuthError
	case service.KindAuth:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case service.KindStoreUnavailable:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
}

func loginHint(err error) string {
	var rerr *session.RedirectError
	if errors.As(err, &rerr) && rerr.To != "" {
		return rerr.To
	}
	return "login"
}
