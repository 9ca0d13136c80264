package auth

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/upb/shotlocker/identity"
	"github.com/upb/shotlocker/notifications"
)

// MockProvider is a mock implementation of identity.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Configure(desc identity.Descriptor) error {
	args := m.Called(desc)
	return args.Error(0)
}

func (m *MockProvider) CurrentSession(ctx context.Context) (*identity.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockProvider) CurrentAuthenticatedUser(ctx context.Context) (*identity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockProvider) FederatedSignIn(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockFetcher is a mock implementation of DescriptorFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchDescriptor(ctx context.Context) (*identity.Descriptor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Descriptor), args.Error(1)
}

// MockNotifier is a mock implementation of notifications.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(level notifications.Level, msg string) string {
	args := m.Called(level, msg)
	return args.String(0)
}

func (m *MockNotifier) Alert(msg string) {
	m.Called(msg)
}

func oauthDescriptor() *identity.Descriptor {
	return &identity.Descriptor{
		UserPoolID:          "us-east-1_pool",
		Region:              "us-east-1",
		UserPoolWebClientID: "client",
		OAuth: &identity.OAuthConfig{
			Domain:          "shotlocker.auth.us-east-1.amazoncognito.com",
			RedirectSignIn:  "https://d111.cloudfront.net",
			RedirectSignOut: "https://d111.cloudfront.net",
			ResponseType:    "code",
			Scope:           []string{"email", "openid", "profile"},
		},
	}
}

func plainDescriptor() *identity.Descriptor {
	d := oauthDescriptor()
	d.OAuth = nil
	return d
}
