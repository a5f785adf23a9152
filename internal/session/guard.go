// Package session tracks who is signed in and hands that identity to the
// components that need it as an explicit value.
package session

import (
	"log/slog"
	"sync"

	"taskly/internal/service"
)

// State is the guard's authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session is an immutable view of the authentication state at one moment.
// The zero value is an unauthenticated session.
type Session struct {
	principal *service.Principal
}

// For returns an authenticated session for p.
func For(p service.Principal) Session {
	return Session{principal: &p}
}

// Principal returns the signed-in principal, if any.
func (s Session) Principal() (service.Principal, bool) {
	if s.principal == nil {
		return service.Principal{}, false
	}
	return *s.principal, true
}

// UserID returns the signed-in user's ID or ErrNotAuthenticated.
func (s Session) UserID() (string, error) {
	if s.principal == nil || s.principal.UserID == "" {
		return "", service.ErrNotAuthenticated
	}
	return s.principal.UserID, nil
}

// Guard is the two-state session machine consulted before any task view.
type Guard struct {
	mu        sync.RWMutex
	principal *service.Principal
	logger    *slog.Logger

	// LoginHint is the entry point a denied caller is sent to.
	LoginHint string
}

// NewGuard returns a guard in the Unauthenticated state.
func NewGuard(logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guard{logger: logger, LoginHint: "login"}
}

// SignedIn moves the guard to Authenticated(p.UserID).
func (g *Guard) SignedIn(p service.Principal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.principal = &p
	g.logger.Debug("session authenticated", slog.String("uid", p.UserID))
}

// SignedOut moves the guard to Unauthenticated.
func (g *Guard) SignedOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.principal = nil
	g.logger.Debug("session cleared")
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.principal == nil {
		return Unauthenticated
	}
	return Authenticated
}

// Current snapshots the guard into a Session value.
func (g *Guard) Current() Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.principal == nil {
		return Session{}
	}
	return For(*g.principal)
}

// Enter is called on entry to a task-bearing view. When unauthenticated it
// returns a RedirectError pointing at the login entry point. Nothing is
// queued; the user must sign in again.
func (g *Guard) Enter(view string) (Session, error) {
	s := g.Current()
	if _, ok := s.Principal(); !ok {
		g.logger.Debug("view entry denied", slog.String("view", view))
		return Session{}, &RedirectError{View: view, To: g.LoginHint}
	}
	return s, nil
}

// RedirectError reports a denied view entry and where to go instead.
type RedirectError struct {
	View string
	To   string
}

func (e *RedirectError) Error() string {
	return "not logged in"
}

func (e *RedirectError) Unwrap() error { return service.ErrNotAuthenticated }
