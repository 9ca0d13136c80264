package auth

import (
	"context"
	"errors"

	"github.com/upb/shotlocker/identity"
	"github.com/upb/shotlocker/internal/shared"
	"github.com/upb/shotlocker/notifications"
	"go.uber.org/zap"
)

// FatalBootstrapMessage is shown when the auth configuration cannot be loaded
const FatalBootstrapMessage = "Shot Locker: Fatal Error unable to get auth provider information from server. " +
	"This can occur if there is an issue with the installation or the configuration has changed. " +
	"Please ask your administrator to check the logs."

// DescriptorFetcher loads the identity provider descriptor from the backend
type DescriptorFetcher interface {
	FetchDescriptor(ctx context.Context) (*identity.Descriptor, error)
}

// BootstrapOptions configures a Bootstrapper
type BootstrapOptions struct {
	// DevMode rewrites the OAuth redirect URIs to LocalOrigin
	DevMode     bool
	LocalOrigin string
}

// Bootstrapper fetches the descriptor once and configures the provider
type Bootstrapper struct {
	fetcher  DescriptorFetcher
	provider identity.Provider
	guard    *Guard
	notifier notifications.Notifier
	opts     BootstrapOptions
	logger   *zap.Logger
}

// NewBootstrapper creates a Bootstrapper
func NewBootstrapper(fetcher DescriptorFetcher, provider identity.Provider, guard *Guard, notifier notifications.Notifier, opts BootstrapOptions, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		fetcher:  fetcher,
		provider: provider,
		guard:    guard,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// Run performs the bootstrap. Failures are fatal: the user is alerted,
// nothing is retried and a bootstrap DomainError is returned.
// identity.ErrRedirected is returned when the guard redirected.
func (b *Bootstrapper) Run(ctx context.Context) (*identity.Descriptor, error) {
	desc, err := b.load(ctx)
	if err != nil {
		b.logger.Error("auth bootstrap failed", zap.Error(err))
		b.notifier.Alert(FatalBootstrapMessage)
		return nil, err
	}

	if desc.HasOAuth() && b.guard != nil {
		if err := b.guard.Check(ctx, *desc); err != nil {
			if !errors.Is(err, identity.ErrRedirected) {
				b.logger.Warn("federated session check failed", zap.Error(err))
			}
			return desc, err
		}
	}

	return desc, nil
}

func (b *Bootstrapper) load(ctx context.Context) (*identity.Descriptor, error) {
	fetched, err := b.fetcher.FetchDescriptor(ctx)
	if err != nil {
		return nil, shared.WrapBootstrap("fetch auth config", err)
	}
	if err := fetched.Validate(); err != nil {
		return nil, shared.WrapBootstrap("unusable auth config", err)
	}

	desc := *fetched
	if b.opts.DevMode && desc.HasOAuth() {
		desc = desc.WithLocalRedirects(b.opts.LocalOrigin)
		b.logger.Debug("rewrote oauth redirects for local development",
			zap.String("origin", b.opts.LocalOrigin))
	}

	if err := b.provider.Configure(desc); err != nil {
		return nil, shared.WrapBootstrap("configure identity provider", err)
	}

	return &desc, nil
}
