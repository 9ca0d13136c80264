// Package identity defines the identity provider abstraction consumed by the
// auth core: its configuration descriptor, lifecycle events and session API.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoSession is returned when nobody is signed in
	ErrNoSession = errors.New("no current session")

	// ErrSessionExpired is returned when the session cannot be renewed
	ErrSessionExpired = errors.New("session expired")

	// ErrNotConfigured is returned before Configure has been called
	ErrNotConfigured = errors.New("identity provider not configured")

	// ErrRedirected signals that startup handed control to the hosted sign-in
	// surface. Callers must stop normal startup when they see it.
	ErrRedirected = errors.New("redirected to hosted sign-in")
)

// Session is the provider's current authenticated session
type Session struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// User identifies the signed-in principal
type User struct {
	Subject  string
	Username string
	Email    string
}

// Provider is the identity provider as seen by the auth core
type Provider interface {
	// Configure applies the descriptor. It emits a configured event.
	Configure(desc Descriptor) error

	// CurrentSession returns the current session, renewing it when needed.
	CurrentSession(ctx context.Context) (*Session, error)

	// CurrentAuthenticatedUser probes for a signed-in user without starting a login.
	CurrentAuthenticatedUser(ctx context.Context) (*User, error)

	// FederatedSignIn hands control to the hosted sign-in surface.
	FederatedSignIn(ctx context.Context) error

	// SignOut ends the current session. It emits a signOut event.
	SignOut(ctx context.Context) error
}
