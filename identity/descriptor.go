package identity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Descriptor describes the identity provider. It is returned by the
// backend's auth-configuration endpoint.
type Descriptor struct {
	UserPoolID          string       `json:"userPoolId" validate:"required"`
	Region              string       `json:"region" validate:"required"`
	UserPoolWebClientID string       `json:"userPoolWebClientId" validate:"required"`
	OAuth               *OAuthConfig `json:"oauth,omitempty" validate:"omitempty"`
}

// OAuthConfig is present when the pool federates through the hosted UI
type OAuthConfig struct {
	Domain          string   `json:"domain" validate:"required"`
	RedirectSignIn  string   `json:"redirectSignIn" validate:"required,url"`
	RedirectSignOut string   `json:"redirectSignOut" validate:"required,url"`
	ResponseType    string   `json:"responseType,omitempty"`
	Scope           []string `json:"scope,omitempty"`
}

// ConfigResponse is the envelope returned by GET /api/auth
type ConfigResponse struct {
	Auth *Descriptor `json:"auth"`
}

// Validate checks that the descriptor is usable
func (d *Descriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("descriptor is missing")
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}
	return nil
}

// HasOAuth reports whether the descriptor carries a federation block
func (d *Descriptor) HasOAuth() bool {
	return d != nil && d.OAuth != nil
}

// WithLocalRedirects returns a copy whose OAuth redirect URIs point at origin.
// Descriptors without an OAuth block are returned unchanged.
func (d Descriptor) WithLocalRedirects(origin string) Descriptor {
	if d.OAuth == nil {
		return d
	}
	oauth := *d.OAuth
	oauth.RedirectSignIn = origin
	oauth.RedirectSignOut = origin
	oauth.Scope = append([]string(nil), d.OAuth.Scope...)
	d.OAuth = &oauth
	return d
}
