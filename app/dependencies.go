package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/upb/shotlocker/auth"
	"github.com/upb/shotlocker/client"
	"github.com/upb/shotlocker/cognito"
	"github.com/upb/shotlocker/config"
	"github.com/upb/shotlocker/credentials"
	"github.com/upb/shotlocker/identity"
	"github.com/upb/shotlocker/notifications"
	"go.uber.org/zap"
)

// Options are the process-level collaborators of the client
type Options struct {
	// AlertOut receives blocking alerts. Defaults to stderr.
	AlertOut io.Writer
	// Redirector receives the hosted sign-in URL
	Redirector cognito.Redirector
	// BaseTransport sends requests on the wire. Defaults to http.DefaultTransport.
	BaseTransport http.RoundTripper
}

// Dependencies holds the client-side auth stack.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Session state
	Cache    *credentials.Cache
	Hub      *identity.Hub
	Notifier *notifications.Center

	// Identity provider
	Cognito *cognito.Client

	// Outbound requests
	Transport *client.Transport
	API       *client.Client

	// Auth lifecycle
	Router       *auth.Router
	Guard        *auth.Guard
	Bootstrapper *auth.Bootstrapper
	Shell        *auth.Shell
}

// NewDependencies creates and wires up the client dependencies.
// Nothing talks to the network until Shell.Start is called.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Dependencies, error) {
	if err := cfg.ValidateClient(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initSession(opts)
	deps.initIdentity(cfg, opts)
	deps.initClient(cfg, opts)
	deps.initAuth(cfg)

	logger.Debug("client dependencies initialized",
		zap.String("api_base_url", deps.API.BaseURL()),
		zap.Bool("development", cfg.IsDevelopment()))
	return deps, nil
}

func (d *Dependencies) initSession(opts Options) {
	d.Cache = credentials.NewCache()
	d.Hub = identity.NewHub(d.Logger)
	d.Notifier = notifications.NewCenter(opts.AlertOut)
}

func (d *Dependencies) initIdentity(cfg *config.Config, opts Options) {
	cognitoOpts := []cognito.Option{
		cognito.WithHTTPClient(&http.Client{
			Transport: opts.BaseTransport,
			Timeout:   cfg.Client.HTTPTimeout,
		}),
	}
	if opts.Redirector != nil {
		cognitoOpts = append(cognitoOpts, cognito.WithRedirector(opts.Redirector))
	}
	if cfg.Session.HasRestoredSession() {
		cognitoOpts = append(cognitoOpts, cognito.WithRestoredSession(cognito.Tokens{
			IDToken:      cfg.Session.IDToken,
			AccessToken:  cfg.Session.AccessToken,
			RefreshToken: cfg.Session.RefreshToken,
		}))
		d.Logger.Debug("restoring session from environment")
	}

	d.Cognito = cognito.NewClient(d.Hub, d.Logger, cognitoOpts...)
}

func (d *Dependencies) initClient(cfg *config.Config, opts Options) {
	d.Transport = client.NewTransport(opts.BaseTransport, d.Cache, d.Cognito, d.Logger)
	d.API = client.New(client.Options{
		BaseURL:   cfg.APIBaseURL(),
		Timeout:   cfg.Client.HTTPTimeout,
		Transport: d.Transport,
		Logger:    d.Logger,
	})
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Router = auth.NewRouter(d.Cache, d.Cognito, d.Logger)
	d.Guard = auth.NewGuard(d.Cognito, d.Logger)
	d.Bootstrapper = auth.NewBootstrapper(d.API, d.Cognito, d.Guard, d.Notifier, auth.BootstrapOptions{
		DevMode:     cfg.IsDevelopment(),
		LocalOrigin: cfg.Client.LocalOrigin,
	}, d.Logger)
	d.Shell = auth.NewShell(d.Hub, d.Router, d.Bootstrapper, d.Logger)
}

// Close releases the router subscription and flushes the logger
func (d *Dependencies) Close() error {
	if d.Shell != nil {
		d.Shell.Close()
	}
	// Sync fails on stderr for some platforms
	_ = d.Logger.Sync()
	return nil
}
