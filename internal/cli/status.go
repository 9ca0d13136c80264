package cli

import (
	"github.com/spf13/cobra"
	"github.com/upb/shotlocker/auth"
)

func newStatusCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the authentication state",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			err := rt.start(cmd)
			if redirected(err) {
				printState(cmd.OutOrStdout(), auth.StateUnauthenticated)
				return nil
			}
			if err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), rt.deps.Shell.State())
			return nil
		}),
	}
}
