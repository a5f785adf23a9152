package testutil

import (
	"context"
	"sync"
	"time"

	"taskly/internal/service"
)

// FakeAuth is an in-memory implementation of service.Auth for testing.
type FakeAuth struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount // email -> account
	current  *service.Principal
	calls    int

	// Error injection for testing
	SignInErr  error
	SignUpErr  error
	SignOutErr error
}

type fakeAccount struct {
	password  string
	principal service.Principal
}

// NewFakeAuth creates a FakeAuth with no accounts and no session.
func NewFakeAuth() *FakeAuth {
	return &FakeAuth{accounts: make(map[string]fakeAccount)}
}

// AddAccount registers an account.
func (f *FakeAuth) AddAccount(p service.Principal, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[p.Email] = fakeAccount{password: password, principal: p}
}

// SetCurrent starts a session for p without a provider call.
func (f *FakeAuth) SetCurrent(p service.Principal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = &p
}

// Calls returns the number of provider calls (sign-in, sign-up, sign-out).
func (f *FakeAuth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// SignIn implements service.Auth.
func (f *FakeAuth) SignIn(ctx context.Context, email, password string) (service.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.SignInErr != nil {
		return service.Principal{}, f.SignInErr
	}
	acct, ok := f.accounts[email]
	if !ok {
		return service.Principal{}, &service.AuthError{Code: service.AuthUserNotFound}
	}
	if acct.password != password {
		return service.Principal{}, &service.AuthError{Code: service.AuthInvalidCredentials}
	}
	p := acct.principal
	f.current = &p
	return p, nil
}

// SignUp implements service.Auth.
func (f *FakeAuth) SignUp(ctx context.Context, email, password, displayName string) (service.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.SignUpErr != nil {
		return service.Principal{}, f.SignUpErr
	}
	if _, exists := f.accounts[email]; exists {
		return service.Principal{}, &service.AuthError{Code: service.AuthEmailInUse}
	}
	p := service.Principal{
		UserID:      "uid-" + email,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.accounts[email] = fakeAccount{password: password, principal: p}
	f.current = &p
	return p, nil
}

// SignOut implements service.Auth.
func (f *FakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.current = nil
	return nil
}

// CurrentPrincipal implements service.Auth.
func (f *FakeAuth) CurrentPrincipal() (service.Principal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return service.Principal{}, false
	}
	return *f.current, true
}
