// Package cognito implements identity.Provider against an Amazon Cognito
// user pool and its hosted UI.
package cognito

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/upb/shotlocker/identity"
	"github.com/upb/shotlocker/internal/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RefreshSkew is how long before expiry a session is refreshed
const RefreshSkew = 60 * time.Second

const refreshKey = "refresh"

// Tokens is a set of tokens issued by the user pool
type Tokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
}

// TokenResponse represents the OAuth2 token endpoint response from Cognito
type TokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Publisher receives the lifecycle events the client emits
type Publisher interface {
	Publish(ev identity.Event)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the client used for token endpoint calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRedirector sets where FederatedSignIn sends the user
func WithRedirector(r Redirector) Option {
	return func(c *Client) { c.redirector = r }
}

// WithRestoredSession installs tokens when the client is configured,
// as if the user had signed in earlier.
func WithRestoredSession(t Tokens) Option {
	return func(c *Client) { c.restored = &t }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client is an in-memory Cognito session holder
type Client struct {
	events     Publisher
	httpClient *http.Client
	redirector Redirector
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.RWMutex
	desc     *identity.Descriptor
	tokens   *Tokens
	restored *Tokens

	refresh singleflight.Group
}

// NewClient creates a Client publishing lifecycle events to events
func NewClient(events Publisher, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		events:     events,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure stores the descriptor and announces the provider as configured
func (c *Client) Configure(desc identity.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}

	c.mu.Lock()
	c.desc = &desc
	restored := c.restored
	c.restored = nil
	if restored != nil {
		c.tokens = restored
	}
	c.mu.Unlock()

	c.logger.Info("cognito configured",
		zap.String("user_pool_id", desc.UserPoolID),
		zap.String("region", desc.Region),
		zap.Bool("oauth", desc.HasOAuth()))

	c.publish(identity.NameConfigured)
	if restored != nil {
		c.publish(identity.NameAutoSignIn)
	}
	return nil
}

// SignIn installs tokens obtained out of band
func (c *Client) SignIn(ctx context.Context, t Tokens) error {
	if _, err := ParseIDToken(t.IDToken); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	c.mu.Lock()
	if c.desc == nil {
		c.mu.Unlock()
		return identity.ErrNotConfigured
	}
	c.tokens = &t
	c.mu.Unlock()

	c.publish(identity.NameSignIn)
	return nil
}

// ExchangeCode redeems an authorization code from the hosted UI and signs in
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	if code == "" {
		return errors.New("missing authorization code")
	}

	oauth, clientID, err := c.oauth()
	if err != nil {
		return err
	}

	resp, err := c.requestTokens(ctx, oauth.Domain, url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {clientID},
		"code":         {code},
		"redirect_uri": {oauth.RedirectSignIn},
	})
	if err != nil {
		return shared.WrapExternal("exchange authorization code", err)
	}

	return c.SignIn(ctx, Tokens{
		IDToken:      resp.IDToken,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
}

// CurrentSession returns the current session, refreshing it when it is
// about to expire.
func (c *Client) CurrentSession(ctx context.Context) (*identity.Session, error) {
	c.mu.RLock()
	configured := c.desc != nil
	tokens := c.tokens
	c.mu.RUnlock()

	if !configured {
		return nil, identity.ErrNotConfigured
	}
	if tokens == nil {
		return nil, identity.ErrNoSession
	}

	claims, err := ParseIDToken(tokens.IDToken)
	if err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}

	if c.now().Add(RefreshSkew).Before(claims.Expiry()) {
		return sessionOf(tokens, claims), nil
	}

	return c.refreshSession(ctx, tokens)
}

// CurrentAuthenticatedUser returns the signed-in user
func (c *Client) CurrentAuthenticatedUser(ctx context.Context) (*identity.User, error) {
	session, err := c.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := ParseIDToken(session.IDToken)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return claims.User(), nil
}

// FederatedSignIn sends the user to the hosted sign-in page
func (c *Client) FederatedSignIn(ctx context.Context) error {
	oauth, clientID, err := c.oauth()
	if err != nil {
		return err
	}
	if c.redirector == nil {
		return errors.New("no redirector configured")
	}

	state, err := generateSecureState()
	if err != nil {
		return fmt.Errorf("generate state: %w", err)
	}

	authURL := buildAuthURL(oauth, clientID, state)
	c.logger.Debug("redirecting to hosted sign-in", zap.String("domain", oauth.Domain))
	return c.redirector.Redirect(ctx, authURL)
}

// SignOut drops the tokens. SignedOut is published even when no one was signed in.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.tokens = nil
	c.mu.Unlock()

	c.publish(identity.NameSignOut)
	return nil
}

// LogoutURL returns the hosted UI logout URL, empty without an OAuth block
func (c *Client) LogoutURL() string {
	oauth, clientID, err := c.oauth()
	if err != nil {
		return ""
	}
	return buildLogoutURL(oauth, clientID)
}

func (c *Client) refreshSession(ctx context.Context, tokens *Tokens) (*identity.Session, error) {
	oauth, clientID, err := c.oauth()
	if err != nil || tokens.RefreshToken == "" {
		return nil, identity.ErrSessionExpired
	}

	// joined callers share this flight, so it must not end with the leader's context
	flightCtx := context.WithoutCancel(ctx)
	v, err, joined := c.refresh.Do(refreshKey, func() (interface{}, error) {
		c.mu.RLock()
		current := c.tokens
		c.mu.RUnlock()

		if current == nil {
			return nil, identity.ErrNoSession
		}
		if current != tokens {
			// refreshed by an earlier flight
			if claims, err := ParseIDToken(current.IDToken); err == nil && c.now().Add(RefreshSkew).Before(claims.Expiry()) {
				return sessionOf(current, claims), nil
			}
			if current.RefreshToken == "" {
				return nil, identity.ErrSessionExpired
			}
		}

		resp, err := c.requestTokens(flightCtx, oauth.Domain, url.Values{
			"grant_type":    {"refresh_token"},
			"client_id":     {clientID},
			"refresh_token": {current.RefreshToken},
		})
		if err != nil {
			return nil, err
		}

		next := &Tokens{
			IDToken:      resp.IDToken,
			AccessToken:  resp.AccessToken,
			RefreshToken: current.RefreshToken,
		}
		if resp.RefreshToken != "" {
			next.RefreshToken = resp.RefreshToken
		}
		claims, err := ParseIDToken(next.IDToken)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		replaced := c.tokens != current
		if !replaced {
			c.tokens = next
		}
		c.mu.Unlock()

		if replaced {
			// signed out or signed in again while the token call was out
			c.logger.Debug("session changed during refresh, result not stored")
			return sessionOf(next, claims), nil
		}

		c.publish(identity.NameTokenRefresh)
		return sessionOf(next, claims), nil
	})
	if err != nil {
		c.logger.Warn("session refresh failed", zap.Error(err))
		return nil, wrapRefresh(err)
	}

	if joined {
		c.logger.Debug("joined in-flight session refresh")
	}
	return v.(*identity.Session), nil
}

func (c *Client) requestTokens(ctx context.Context, domain string, data url.Values) (*TokenResponse, error) {
	tokenURL := hostedURL(domain) + "/oauth2/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}

	if tokenResp.IDToken == "" {
		return nil, fmt.Errorf("no id_token in response")
	}

	return &tokenResp, nil
}

func (c *Client) oauth() (*identity.OAuthConfig, string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.desc == nil {
		return nil, "", identity.ErrNotConfigured
	}
	if c.desc.OAuth == nil {
		return nil, "", errors.New("user pool has no hosted UI domain")
	}
	return c.desc.OAuth, c.desc.UserPoolWebClientID, nil
}

func (c *Client) publish(name string) {
	if c.events == nil {
		return
	}
	c.events.Publish(identity.NewEvent(name))
}

func sessionOf(t *Tokens, claims *Claims) *identity.Session {
	return &identity.Session{
		IDToken:      t.IDToken,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    claims.Expiry(),
	}
}

func wrapRefresh(err error) error {
	return shared.WrapExternal("refresh session", err)
}

// hostedURL returns the hosted UI base URL. Cognito domains are usually
// configured without a scheme.
func hostedURL(domain string) string {
	domain = strings.TrimSuffix(domain, "/")
	if strings.HasPrefix(domain, "https://") || strings.HasPrefix(domain, "http://") {
		return domain
	}
	return "https://" + domain
}

func buildAuthURL(oauth *identity.OAuthConfig, clientID, state string) string {
	responseType := oauth.ResponseType
	if responseType == "" {
		responseType = "code"
	}
	scope := strings.Join(oauth.Scope, " ")
	if scope == "" {
		scope = "openid email profile"
	}

	params := url.Values{
		"response_type": {responseType},
		"client_id":     {clientID},
		"redirect_uri":  {oauth.RedirectSignIn},
		"state":         {state},
		"scope":         {scope},
	}
	return hostedURL(oauth.Domain) + "/oauth2/authorize?" + params.Encode()
}

func buildLogoutURL(oauth *identity.OAuthConfig, clientID string) string {
	params := url.Values{
		"client_id":  {clientID},
		"logout_uri": {oauth.RedirectSignOut},
	}
	return hostedURL(oauth.Domain) + "/logout?" + params.Encode()
}

func generateSecureState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
