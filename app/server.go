package app

import (
	"fmt"

	"github.com/upb/shotlocker/config"
	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

// HostedUIScopes are the scopes requested through the hosted UI
var HostedUIScopes = []string{"email", "openid", "profile", "aws.cognito.signin.user.admin"}

// ServerDependencies holds what the auth-config server needs
type ServerDependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Descriptor identity.Descriptor
}

// NewServerDependencies builds the descriptor served from GET /api/auth
func NewServerDependencies(cfg *config.Config, logger *zap.Logger) (*ServerDependencies, error) {
	if err := cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	desc := DescriptorFromConfig(cfg.Cognito)
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth descriptor: %w", err)
	}

	logger.Info("auth descriptor ready",
		zap.String("user_pool_id", desc.UserPoolID),
		zap.String("region", desc.Region),
		zap.Bool("oauth", desc.HasOAuth()))

	return &ServerDependencies{
		Config:     cfg,
		Logger:     logger,
		Descriptor: desc,
	}, nil
}

// DescriptorFromConfig maps the user pool settings to a descriptor.
// The oauth block is included only when a hosted UI domain is configured.
func DescriptorFromConfig(c config.CognitoConfig) identity.Descriptor {
	desc := identity.Descriptor{
		UserPoolID:          c.UserPoolID,
		Region:              c.Region,
		UserPoolWebClientID: c.ClientID,
	}
	if c.Domain == "" {
		return desc
	}

	desc.OAuth = &identity.OAuthConfig{
		Domain:          c.Domain,
		RedirectSignIn:  c.CDNDomainURL,
		RedirectSignOut: c.CDNDomainURL,
		ResponseType:    "code",
		Scope:           append([]string(nil), HostedUIScopes...),
	}
	return desc
}
