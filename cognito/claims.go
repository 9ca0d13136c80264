package cognito

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/shotlocker/identity"
)

// ErrMissingClaim is returned when a required claim is missing
var ErrMissingClaim = errors.New("missing required claim")

// Claims are the Cognito ID token claims the client reads
type Claims struct {
	jwt.RegisteredClaims
	Email           string `json:"email,omitempty"`
	EmailVerified   bool   `json:"email_verified,omitempty"`
	CognitoUsername string `json:"cognito:username,omitempty"`
	TokenUse        string `json:"token_use,omitempty"`
}

// ParseIDToken reads the claims of an ID token without verifying its signature.
// Signature checks belong to the API.
func ParseIDToken(token string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: exp", ErrMissingClaim)
	}
	return claims, nil
}

// Expiry returns the exp claim as a time
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// User converts the claims to an identity user
func (c *Claims) User() *identity.User {
	username := c.CognitoUsername
	if username == "" {
		username = c.Subject
	}
	return &identity.User{
		Subject:  c.Subject,
		Username: username,
		Email:    c.Email,
	}
}
