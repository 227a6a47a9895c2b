package commands

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/media"
)

var markViewed bool

func snapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snaps",
		Short: "List or download pending snaps",
	}
	cmd.AddCommand(snapsListCmd(), snapsDownloadCmd())
	return cmd
}

func snapsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending received snaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			pending, err := w.Snaps.Pending(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, s := range pending {
				sent := time.UnixMilli(s.SentAt).Format(time.RFC3339)
				fmt.Printf("%s  from %-16s %s\n", s.ID, s.Sender, sent)
			}
			if len(pending) == 0 {
				fmt.Println("No pending snaps.")
			}
			return saveSession(w, session)
		},
	}
}

func snapsDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <dir>",
		Short: "Download and decode pending snaps into a directory",
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
			pending, err := w.Snaps.Pending(cmd.Context(), session)
			if err != nil {
				return err
			}

			for _, s := range pending {
				name := snapFileName(s)
				if existing, err := filepath.Glob(filepath.Join(dir, name+".*")); err == nil && len(existing) > 0 {
					continue // already downloaded
				}

				blob, err := w.Snaps.Blob(cmd.Context(), session, s.ID)
				if err != nil {
					// Decode failures skip the item; everything else aborts.
					var derr *domain.DecodeError
					if errors.As(err, &derr) {
						logrus.WithError(err).Warn("skipping snap")
						continue
					}
					return err
				}

				if blob.Zip {
					if err := extractZip(filepath.Join(dir, name), blob.Data); err != nil {
						return err
					}
					fmt.Printf("extracted %s/\n", name)
				} else {
					path := filepath.Join(dir, fileNameWithExt(name, blob.Kind))
					if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
						return err
					}
					fmt.Printf("wrote %s\n", path)
				}

				if markViewed {
					if err := w.Snaps.MarkViewed(cmd.Context(), session, s.ID, 1); err != nil {
						logrus.WithError(err).Warn("could not mark snap viewed")
					}
				}
			}
			return saveSession(w, session)
		},
	}
	cmd.Flags().BoolVar(&markViewed, "mark-viewed", false, "mark downloaded snaps as viewed")
	return cmd
}

// snapFileName builds the stem "<sender>_<id>".
func snapFileName(s domain.Snap) string {
	return fmt.Sprintf("%s_%s", s.Sender, s.ID)
}

// fileNameWithExt appends the extension for the classified kind. Unknown
// blobs keep a bare name; they are still written.
func fileNameWithExt(stem string, kind media.Kind) string {
	if ext := media.Extension(kind); ext != "" {
		return stem + "." + ext
	}
	return stem
}

// extractZip unpacks a zip-wrapped multi-part video into its own directory.
func extractZip(dir string, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Wrap(err, "open zip blob")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range zr.File {
		name := filepath.Base(f.Name) // flatten; the archives carry no dirs
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}
