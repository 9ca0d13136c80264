package client

import (
	"context"
	"net/http"

	"github.com/upb/shotlocker/credentials"
	"github.com/upb/shotlocker/internal/observability"
	"github.com/upb/shotlocker/internal/shared"
	"go.uber.org/zap"
)

// SignOuter ends the identity provider session
type SignOuter interface {
	SignOut(ctx context.Context) error
}

// Transport is an http.RoundTripper that authorizes every request from the
// credential cache and treats any 401 as a global sign-out signal.
type Transport struct {
	// Base is the underlying RoundTripper. If nil, http.DefaultTransport is used.
	Base    http.RoundTripper
	Cache   *credentials.Cache
	SignOut SignOuter
	Logger  *zap.Logger
}

// NewTransport creates a Transport over base
func NewTransport(base http.RoundTripper, cache *credentials.Cache, signOut SignOuter, logger *zap.Logger) *Transport {
	return &Transport{
		Base:    base,
		Cache:   cache,
		SignOut: signOut,
		Logger:  logger,
	}
}

// RoundTrip implements http.RoundTripper.
// The token is resolved before the request is handed to Base.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := observability.WithRequest(req.Context(), t.logger())

	out := t.authorize(req, logger)

	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		rejected := shared.NewDomainError(shared.ErrorTypeUnauthorized, "backend rejected credentials", nil).
			WithDetail("method", req.Method).
			WithDetail("path", req.URL.Path)
		logger.Warn("unauthorized response, signing out", zap.Object("error", rejected))
		t.HandleUnauthorized(req.Context())
	}

	return resp, nil
}

// authorize returns the request to send: a clone carrying the bearer token
// when one resolves, otherwise req itself.
func (t *Transport) authorize(req *http.Request, logger *zap.Logger) *http.Request {
	out := req
	if id := shared.RequestID(req.Context()); id != "" && req.Header.Get(shared.RequestIDHeader) == "" {
		out = req.Clone(req.Context())
		out.Header.Set(shared.RequestIDHeader, id)
	}

	if t.Cache == nil || !t.Cache.HasDelegate() {
		return out
	}

	res := t.Cache.Resolve(req.Context())
	token, ok := res.Bearer()
	if !ok {
		if res.Kind == credentials.KindFailed {
			logger.Debug("token resolution failed, sending unauthenticated",
				zap.Error(shared.WrapTokenResolution("resolve bearer token", res.Err)))
		}
		return out
	}

	if out == req {
		out = req.Clone(req.Context())
	}
	out.Header.Set("Authorization", "Bearer "+token)
	return out
}

// HandleUnauthorized clears the credential cache and starts a detached
// sign-out. The sign-out outcome is logged only; it is best effort.
func (t *Transport) HandleUnauthorized(ctx context.Context) {
	if t.Cache != nil {
		t.Cache.Clear()
	}
	if t.SignOut == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		if err := t.SignOut.SignOut(detached); err != nil {
			t.logger().Debug("sign-out after 401 failed", zap.Error(err))
		}
	}()
}

func (t *Transport) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}
