package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var password string

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("username required (-u)")
			}
			w, err := wire()
			if err != nil {
				return err
			}
			if password == "" {
				pw, err := promptSecret(fmt.Sprintf("Password for %s: ", username))
				if err != nil {
					return err
				}
				password = pw
			}

			session, err := w.Auth.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := saveSession(w, session); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", session.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "snapchat password (prompted when omitted)")
	return cmd
}
