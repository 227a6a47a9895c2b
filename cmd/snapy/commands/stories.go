package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bramgg/snapy/internal/domain"
)

func storiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "List or download friend stories",
	}
	cmd.AddCommand(storiesListCmd(), storiesDownloadCmd())
	return cmd
}

func storiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available friend stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			stories, err := w.Snaps.FriendStories(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, st := range stories {
				posted := time.UnixMilli(st.Timestamp).Format(time.RFC3339)
				fmt.Printf("%s  by %-16s %s\n", st.ID, st.Username, posted)
			}
			if len(stories) == 0 {
				fmt.Println("No friend stories.")
			}
			return nil
		},
	}
}

func storiesDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <dir>",
		Short: "Download and decrypt friend stories into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
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
			stories, err := w.Snaps.FriendStories(cmd.Context(), session)
			if err != nil {
				return err
			}

			for _, st := range stories {
				stem := fmt.Sprintf("%s_%s", st.Username, st.ID)
				if existing, err := filepath.Glob(filepath.Join(dir, stem+"*")); err == nil && len(existing) > 0 {
					continue
				}

				blob, err := w.Snaps.StoryBlob(cmd.Context(), session, st)
				if err != nil {
					var derr *domain.DecodeError
					if errors.As(err, &derr) {
						logrus.WithError(err).Warn("skipping story")
						continue
					}
					return err
				}
				path := filepath.Join(dir, fileNameWithExt(stem, blob.Kind))
				if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
			}
			return nil
		},
	}
}
