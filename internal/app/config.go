package app

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string // config directory, e.g. $HOME/.snapy
	APIURL   string // API base URL; empty means the live host
	GAuthURL string // identity-provider URL; empty means the live endpoint

	Email    string // secondary-provider account
	Password string // secondary-provider password

	HTTP *http.Client       // optional; defaults to http.DefaultClient
	Log  logrus.FieldLogger // optional; defaults to the standard logger
}
