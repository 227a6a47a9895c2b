package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bramgg/snapy/internal/app"
	"github.com/bramgg/snapy/internal/domain"
)

var (
	home       string
	passphrase string
	username   string
	gmail      string
	gpasswd    string
	apiURL     string
	gauthURL   string
	verbose    bool
	quiet      bool
)

func Execute() error {
	root := &cobra.Command{
		Use:           "snapy",
		Short:         "Client for the Snapchat mobile-app API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case verbose:
				logrus.SetLevel(logrus.DebugLevel)
			case quiet:
				logrus.SetLevel(logrus.WarnLevel)
			}
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".snapy")
			}
			return os.MkdirAll(home, 0o700)
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.snapy)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the stored session")
	root.PersistentFlags().StringVarP(&username, "user", "u", "", "snapchat username")
	root.PersistentFlags().StringVar(&gmail, "gmail", os.Getenv("SNAPY_GMAIL"), "google account email")
	root.PersistentFlags().StringVar(&gpasswd, "gpasswd", os.Getenv("SNAPY_GPASSWD"), "google account password (prompted when omitted)")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default: the live host)")
	root.PersistentFlags().StringVar(&gauthURL, "gauth-url", "", "identity-provider URL (default: the live endpoint)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings only")

	root.AddCommand(
		loginCmd(), restoreCmd(), logoutCmd(),
		snapsCmd(), storiesCmd(), sendCmd(),
		friendsCmd(), privacyCmd(), feedCmd(),
	)
	return root.Execute()
}

// wire builds the dependency graph, prompting for the google password when
// it was not supplied. Every command needs it: the secondary token rides on
// each authenticated request.
func wire() (*app.Wire, error) {
	if gmail == "" {
		return nil, errors.New("google account required (--gmail or SNAPY_GMAIL)")
	}
	if gpasswd == "" {
		pw, err := promptSecret(fmt.Sprintf("Google password for %s: ", gmail))
		if err != nil {
			return nil, err
		}
		gpasswd = pw
	}
	return app.NewWire(app.Config{
		Home:     home,
		APIURL:   apiURL,
		GAuthURL: gauthURL,
		Email:    gmail,
		Password: gpasswd,
		Log:      logrus.StandardLogger(),
	})
}

// currentSession loads the persisted session.
func currentSession(w *app.Wire) (*domain.Session, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase required (-p)")
	}
	s, ok, err := w.Sessions.Load(passphrase)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("no stored session. run login or restore first")
	}
	if !s.Authenticated() {
		return nil, errors.New("stored session is not authenticated. run login again")
	}
	return &s, nil
}

// saveSession persists the session for later runs.
func saveSession(w *app.Wire, s *domain.Session) error {
	if passphrase == "" {
		return errors.New("passphrase required (-p)")
	}
	return w.Sessions.Save(passphrase, *s)
}

func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
