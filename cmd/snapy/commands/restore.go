package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// restore <username> <auth-token>: rebuild a session from a bearer token
// issued earlier. Useful for when the login endpoint itself is broken.
func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <username> <auth-token>",
		Short: "Rebuild a session from a previously issued auth token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := w.Auth.Restore(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := saveSession(w, session); err != nil {
				return err
			}
			fmt.Printf("Session restored for %s.\n", session.Username)
			return nil
		},
	}
}
