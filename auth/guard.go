package auth

import (
	"context"
	"fmt"

	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

// Guard sends unauthenticated users of a federated pool to the hosted sign-in surface
type Guard struct {
	provider identity.Provider
	logger   *zap.Logger
}

// NewGuard creates a Guard
func NewGuard(provider identity.Provider, logger *zap.Logger) *Guard {
	return &Guard{provider: provider, logger: logger}
}

// Check returns nil when startup may continue. When no session exists it
// triggers the federated sign-in and returns identity.ErrRedirected.
func (g *Guard) Check(ctx context.Context, desc identity.Descriptor) error {
	if !desc.HasOAuth() {
		return nil
	}

	if _, err := g.provider.CurrentAuthenticatedUser(ctx); err == nil {
		return nil
	}

	g.logger.Info("no authenticated user, redirecting to hosted sign-in",
		zap.String("domain", desc.OAuth.Domain))

	if err := g.provider.FederatedSignIn(ctx); err != nil {
		return fmt.Errorf("federated sign-in: %w", err)
	}
	return identity.ErrRedirected
}
