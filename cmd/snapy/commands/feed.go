package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Feed maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the feed server-side",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			if err := w.Snaps.ClearFeed(cmd.Context(), session); err != nil {
				return err
			}
			fmt.Println("Feed cleared.")
			return nil
		},
	})
	return cmd
}
