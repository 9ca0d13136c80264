// Package auth drives the client-side session: it bootstraps the identity
// provider, keeps the credential cache in step with provider events and
// guards federated startup.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/upb/shotlocker/credentials"
	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned when the router is started twice
var ErrAlreadyStarted = errors.New("auth router already subscribed")

// State is the coarse authentication state of the application
type State int32

const (
	// StateLoading holds until the first event or Settle decides
	StateLoading State = iota
	// StateAuthenticated means a user session is available
	StateAuthenticated
	// StateUnauthenticated means no user is signed in
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// Router applies identity provider events to the credential cache
type Router struct {
	cache    *credentials.Cache
	provider identity.Provider
	logger   *zap.Logger
	state    atomic.Int32

	mu  sync.Mutex
	sub *identity.Subscription
}

// NewRouter creates a Router writing to cache
func NewRouter(cache *credentials.Cache, provider identity.Provider, logger *zap.Logger) *Router {
	return &Router{
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

// Start subscribes the router to hub. A router holds at most one subscription.
func (r *Router) Start(ctx context.Context, hub *identity.Hub) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return ErrAlreadyStarted
	}

	r.sub = hub.Subscribe(func(ev identity.Event) {
		r.Handle(ctx, ev)
	})
	return nil
}

// Stop releases the subscription. The router may be started again afterwards.
func (r *Router) Stop() {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// Handle applies a single event
func (r *Router) Handle(ctx context.Context, ev identity.Event) {
	switch ev.Kind {
	case identity.EventConfigured:
		r.logger.Info("identity provider configured")
		r.registerDelegate()
	case identity.EventSignedIn, identity.EventAutoSignIn, identity.EventTokenRefreshed:
		r.logger.Info("user signed in", zap.String("event", ev.Name))
		r.registerDelegate()
		r.setState(StateAuthenticated)
	case identity.EventSignedOut:
		r.logger.Info("user signed out")
		r.cache.Clear()
		r.setState(StateUnauthenticated)
	default:
		r.logger.Debug("unrecognized auth event", zap.String("event", ev.Name))
	}
}

// Settle leaves the loading state by probing for a signed-in user.
// It does nothing once an event has already decided the state.
func (r *Router) Settle(ctx context.Context) State {
	if r.State() != StateLoading {
		return r.State()
	}

	next := StateAuthenticated
	if _, err := r.provider.CurrentAuthenticatedUser(ctx); err != nil {
		next = StateUnauthenticated
	}
	r.state.CompareAndSwap(int32(StateLoading), int32(next))
	return r.State()
}

// State returns the current coarse authentication state
func (r *Router) State() State {
	return State(r.state.Load())
}

func (r *Router) setState(s State) {
	r.state.Store(int32(s))
}

func (r *Router) registerDelegate() {
	r.cache.SetDelegate(r.sessionDelegate())
}

// sessionDelegate asks the provider for the current session on every call,
// so a refreshed token is always picked up.
func (r *Router) sessionDelegate() credentials.Delegate {
	return func(ctx context.Context) (res credentials.Resolution) {
		defer func() {
			if p := recover(); p != nil {
				res = credentials.Failed(fmt.Errorf("session lookup panicked: %v", p))
			}
		}()

		session, err := r.provider.CurrentSession(ctx)
		switch {
		case errors.Is(err, identity.ErrNoSession):
			return credentials.NoCredential()
		case err != nil:
			return credentials.Failed(err)
		case session == nil:
			return credentials.NoCredential()
		}
		return credentials.Resolved(session.IDToken)
	}
}
