package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bramgg/snapy/internal/domain"
)

func privacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "privacy <everyone|friends>",
		Short: "Choose who may send you snaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var setting domain.PrivacySetting
			switch args[0] {
			case "everyone":
				setting = domain.PrivacyEveryone
			case "friends":
				setting = domain.PrivacyFriends
			default:
				return errors.Errorf("unknown privacy setting %q", args[0])
			}

			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			if err := w.Auth.UpdatePrivacy(cmd.Context(), session, setting); err != nil {
				return err
			}
			fmt.Printf("Privacy set to %s.\n", args[0])
			return nil
		},
	}
}
