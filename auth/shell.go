package auth

import (
	"context"
	"fmt"

	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

// Shell owns the auth lifecycle of one application process
type Shell struct {
	hub          *identity.Hub
	router       *Router
	bootstrapper *Bootstrapper
	logger       *zap.Logger
}

// NewShell creates a Shell
func NewShell(hub *identity.Hub, router *Router, bootstrapper *Bootstrapper, logger *zap.Logger) *Shell {
	return &Shell{
		hub:          hub,
		router:       router,
		bootstrapper: bootstrapper,
		logger:       logger,
	}
}

// Start subscribes the router, then bootstraps the provider and settles the
// coarse state. The router is subscribed first so the configured event is
// not missed.
func (s *Shell) Start(ctx context.Context) error {
	if err := s.router.Start(ctx, s.hub); err != nil {
		return fmt.Errorf("start auth router: %w", err)
	}

	if _, err := s.bootstrapper.Run(ctx); err != nil {
		return err
	}

	state := s.router.Settle(ctx)
	s.logger.Info("auth ready", zap.String("state", state.String()))
	return nil
}

// State returns the coarse authentication state
func (s *Shell) State() State {
	return s.router.State()
}

// Close releases the router subscription
func (s *Shell) Close() {
	s.router.Stop()
}
