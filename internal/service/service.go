// Package service defines the backend-agnostic task model and the contracts
// the remote store and auth provider implement.
package service

import "context"

// Store is the per-user remote task collection.
// Commands never import the Firestore SDK directly.
type Store interface {
	// Subscribe opens a live subscription to the user's tasks ordered by
	// due date ascending. Each delivery is the full current snapshot.
	// The caller must Close the subscription.
	Subscribe(ctx context.Context, userID string) (*Subscription, error)

	// Create persists a new task and returns the store-assigned ID.
	// The ID is written back onto the stored document.
	Create(ctx context.Context, userID string, f Fields) (string, error)

	// Update overwrites every mutable field of an existing task.
	Update(ctx context.Context, userID, id string, f Fields) error

	// MergeFields writes only the fields set in p.
	MergeFields(ctx context.Context, userID, id string, p Patch) error

	// Delete removes the task permanently.
	Delete(ctx context.Context, userID, id string) error

	// SaveProfile writes the user's profile document.
	SaveProfile(ctx context.Context, userID string, rec UserRecord) error
}

// Auth is the authentication provider boundary.
type Auth interface {
	// SignIn validates credentials and starts a session.
	SignIn(ctx context.Context, email, password string) (Principal, error)

	// SignUp creates an account and starts a session for it.
	SignUp(ctx context.Context, email, password, displayName string) (Principal, error)

	// SignOut ends the current session. Signing out with no session is not an error.
	SignOut(ctx context.Context) error

	// CurrentPrincipal returns the signed-in principal, if any.
	CurrentPrincipal() (Principal, bool)
}
