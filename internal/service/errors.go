package service

import (
	"errors"
	"fmt"
)

// Kind classifies every error a task or auth operation can report.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotAuthenticated
	KindNotFound
	KindStoreUnavailable
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotAuthenticated:
		return "not authenticated"
	case KindNotFound:
		return "not found"
	case KindStoreUnavailable:
		return "store unavailable"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

var (
	// ErrNotAuthenticated is returned when an operation needs a session and none is active.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrNotFound is returned when a task is absent from the local cache.
	ErrNotFound = errors.New("task not found")
)

// ValidationError is a local, field-scoped rejection raised before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps a network or backend failure of a remote operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op + ": store unavailable"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AuthCode is the provider's reason for rejecting a sign-in or sign-up.
type AuthCode int

const (
	AuthRejected AuthCode = iota
	AuthInvalidCredentials
	AuthUserNotFound
	AuthInvalidEmailFormat
	AuthEmailInUse
	AuthWeakPassword
)

func (c AuthCode) String() string {
	switch c {
	case AuthInvalidCredentials:
		return "Incorrect password"
	case AuthUserNotFound:
		return "No account found for this email"
	case AuthInvalidEmailFormat:
		return "Email format is invalid"
	case AuthEmailInUse:
		return "Email is already in use"
	case AuthWeakPassword:
		return "Password should be at least 6 characters"
	}
	return "Request rejected"
}

// AuthError is a sign-in or sign-up rejected by the provider.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	return e.Code.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var verr *ValidationError
	var serr *StoreError
	var aerr *AuthError
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrNotAuthenticated):
		return KindNotAuthenticated
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &aerr):
		return KindAuth
	case errors.As(err, &serr):
		return KindStoreUnavailable
	}
	return KindUnknown
}
