// Package cli contains the shotlocker commands
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/upb/shotlocker/app"
	"github.com/upb/shotlocker/auth"
	"github.com/upb/shotlocker/cognito"
	"github.com/upb/shotlocker/config"
	"github.com/upb/shotlocker/identity"
	"github.com/upb/shotlocker/internal/observability"
	"github.com/upb/shotlocker/internal/shared"
	"go.uber.org/zap"
)

// ErrSignInRequired is returned by commands that need a session when the
// user was sent to the hosted sign-in page instead.
var ErrSignInRequired = errors.New("sign-in required")

// runtime is the state shared by the commands of one invocation
type runtime struct {
	verbose    bool
	redirector cognito.Redirector
	deps       *app.Dependencies
}

// NewRootCommand builds the shotlocker command tree
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "shotlocker",
		Short: "ShotLocker API client",
		Long: `shotlocker talks to the ShotLocker REST API with the signed-in user's credentials.

It loads the identity provider configuration from the backend on every run.
Set API_URL to target a local backend; OAuth redirects then point at LOCAL_ORIGIN.

Example usage:
  shotlocker status              # Show whether a user is signed in
  shotlocker get /lockers        # Authorized GET, prints the JSON body
  shotlocker login --code CODE   # Redeem a hosted UI authorization code`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newStatusCommand(rt),
		newGetCommand(rt),
		newLoginCommand(rt),
	)
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// init loads configuration and wires the client stack
func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.New(cmd.Context())
	if err != nil {
		return shared.NewDomainError(shared.ErrorTypeConfiguration, "loading config", err)
	}

	level := cfg.Observability.LogLevel
	if rt.verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(level, cfg.Observability.LogFormat)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	redirector := rt.redirector
	if redirector == nil {
		redirector = cognito.PromptRedirector{Out: cmd.ErrOrStderr()}
	}

	deps, err := app.NewDependencies(cmd.Context(), cfg, logger, app.Options{
		AlertOut:   cmd.ErrOrStderr(),
		Redirector: redirector,
	})
	if err != nil {
		_ = logger.Sync()
		return err
	}
	rt.deps = deps
	return nil
}

// start wires the stack and runs the auth bootstrap. Every request of one
// invocation carries the same request ID.
func (rt *runtime) start(cmd *cobra.Command) error {
	ctx, id := shared.EnsureRequestID(cmd.Context())
	cmd.SetContext(ctx)

	if err := rt.init(cmd); err != nil {
		return err
	}
	rt.deps.Logger.Debug("starting client", zap.String("request_id", id))
	return rt.deps.Shell.Start(ctx)
}

// run wraps a command body so the client stack is released however it ends
func (rt *runtime) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() { _ = rt.close() }()
		return fn(cmd, args)
	}
}

func (rt *runtime) close() error {
	if rt.deps == nil {
		return nil
	}
	err := rt.deps.Close()
	rt.deps = nil
	return err
}

func printState(out io.Writer, state auth.State) {
	c := color.New(color.FgYellow)
	if state == auth.StateAuthenticated {
		c = color.New(color.FgGreen)
	}
	_, _ = c.Fprintln(out, state.String())
}

func redirected(err error) bool {
	return errors.Is(err, identity.ErrRedirected)
}
