package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	sendFile    string
	sendSeconds int
)

// send <recipient>...: upload a media file and send it.
func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <recipient>...",
		Short: "Send a media file to one or more friends",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(sendFile)
			if err != nil {
				return err
			}
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			if err := w.Publish.Send(cmd.Context(), session, args, blob, sendSeconds); err != nil {
				return err
			}
			fmt.Printf("Sent %s to %d recipient(s).\n", sendFile, len(args))
			return nil
		},
	}
	cmd.Flags().StringVarP(&sendFile, "file", "f", "", "media file to send")
	cmd.Flags().IntVarP(&sendSeconds, "time", "t", 0, "view time in seconds (default 5)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
