package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and delete the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			if err := w.Auth.Logout(cmd.Context(), session); err != nil {
				return err
			}
			if err := w.Sessions.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
