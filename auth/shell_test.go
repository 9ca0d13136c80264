package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/shotlocker/credentials"
	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

type shellFixture struct {
	shell    *Shell
	cache    *credentials.Cache
	hub      *identity.Hub
	fetcher  *MockFetcher
	provider *MockProvider
	notifier *MockNotifier
}

func newShellFixture() *shellFixture {
	f := &shellFixture{
		cache:    credentials.NewCache(),
		hub:      identity.NewHub(zap.NewNop()),
		fetcher:  new(MockFetcher),
		provider: new(MockProvider),
		notifier: new(MockNotifier),
	}
	router := NewRouter(f.cache, f.provider, zap.NewNop())
	guard := NewGuard(f.provider, zap.NewNop())
	boot := NewBootstrapper(f.fetcher, f.provider, guard, f.notifier, BootstrapOptions{}, zap.NewNop())
	f.shell = NewShell(f.hub, router, boot, zap.NewNop())
	return f
}

func TestShell_StartRegistersDelegateBeforeReturning(t *testing.T) {
	f := newShellFixture()
	f.fetcher.On("FetchDescriptor", mock.Anything).Return(plainDescriptor(), nil)
	f.provider.On("Configure", mock.Anything).Run(func(mock.Arguments) {
		f.hub.Publish(identity.NewEvent(identity.NameConfigured))
	}).Return(nil)
	f.provider.On("CurrentAuthenticatedUser", mock.Anything).Return(nil, identity.ErrNoSession)
	f.provider.On("CurrentSession", mock.Anything).Return(&identity.Session{IDToken: "id-token"}, nil)

	require.NoError(t, f.shell.Start(context.Background()))
	defer f.shell.Close()

	assert.True(t, f.cache.HasDelegate())
	assert.Equal(t, StateUnauthenticated, f.shell.State())

	token, ok := f.cache.Resolve(context.Background()).Bearer()
	require.True(t, ok)
	assert.Equal(t, "id-token", token)
}

func TestShell_RestoredSessionIsAuthenticated(t *testing.T) {
	f := newShellFixture()
	f.fetcher.On("FetchDescriptor", mock.Anything).Return(plainDescriptor(), nil)
	f.provider.On("Configure", mock.Anything).Run(func(mock.Arguments) {
		f.hub.Publish(identity.NewEvent(identity.NameConfigured))
		f.hub.Publish(identity.NewEvent(identity.NameAutoSignIn))
	}).Return(nil)

	require.NoError(t, f.shell.Start(context.Background()))
	defer f.shell.Close()

	assert.Equal(t, StateAuthenticated, f.shell.State())
	f.provider.AssertNotCalled(t, "CurrentAuthenticatedUser", mock.Anything)
}

func TestShell_BootstrapFailure(t *testing.T) {
	f := newShellFixture()
	f.fetcher.On("FetchDescriptor", mock.Anything).Return(nil, errors.New("connection refused"))
	f.notifier.On("Alert", FatalBootstrapMessage).Return()

	err := f.shell.Start(context.Background())
	defer f.shell.Close()

	require.Error(t, err)
	assert.False(t, f.cache.HasDelegate())
	assert.Equal(t, StateLoading, f.shell.State())
	f.notifier.AssertExpectations(t)
}

func TestShell_CloseReleasesSubscription(t *testing.T) {
	f := newShellFixture()
	f.fetcher.On("FetchDescriptor", mock.Anything).Return(plainDescriptor(), nil)
	f.provider.On("Configure", mock.Anything).Return(nil)
	f.provider.On("CurrentAuthenticatedUser", mock.Anything).Return(&identity.User{Subject: "u1"}, nil)

	require.NoError(t, f.shell.Start(context.Background()))
	assert.Equal(t, 1, f.hub.Subscribers())

	f.shell.Close()
	assert.Equal(t, 0, f.hub.Subscribers())
}
