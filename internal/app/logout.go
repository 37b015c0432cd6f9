package app

import (
	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if store.Session() == nil {
				ok("Already signed out")
				return nil
			}

			// Local state converges to signed-out even when the provider
			// call fails; the saved session is gone either way.
			if err := store.SignOut(cmd.Context()); err != nil {
				warn("Provider sign-out failed (local session cleared anyway): %v", err)
				return nil
			}
			ok("Signed out")
			return nil
		},
	}
}
