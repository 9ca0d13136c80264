package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/upb/shotlocker/cognito"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Redeem a hosted UI authorization code",
		Long: `Exchange the authorization code returned by the hosted sign-in page for tokens.

Run "shotlocker status" first to get the sign-in URL.`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			if code == "" {
				return errors.New("--code is required")
			}

			// the user is signing in right now, so the sign-in URL is not shown again
			rt.redirector = cognito.RedirectFunc(func(context.Context, string) error { return nil })

			if err := rt.start(cmd); err != nil && !redirected(err) {
				return err
			}

			if err := rt.deps.Cognito.ExchangeCode(cmd.Context(), code); err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), rt.deps.Shell.State())
			return nil
		}),
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code from the sign-in redirect")
	return cmd
}
