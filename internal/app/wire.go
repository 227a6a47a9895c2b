package app

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/gauth"
	authsvc "github.com/bramgg/snapy/internal/services/auth"
	friendsvc "github.com/bramgg/snapy/internal/services/friends"
	publishsvc "github.com/bramgg/snapy/internal/services/publish"
	snapsvc "github.com/bramgg/snapy/internal/services/snaps"
	"github.com/bramgg/snapy/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Sessions domain.SessionStore
	Tokens   domain.SecondaryTokenSource
	Auth     domain.AuthService
	Snaps    domain.SnapService
	Friends  domain.FriendService
	Publish  domain.PublishService
	API      *api.Client
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	sessionStore := store.NewSessionFileStore(cfg.Home)

	provider := gauth.NewClient(cfg.GAuthURL, httpClient, log)
	tokens := gauth.NewTokenSource(provider, cfg.Email, cfg.Password)

	apiClient := api.NewClient(cfg.APIURL, httpClient, log)

	return &Wire{
		Sessions: sessionStore,
		Tokens:   tokens,
		Auth:     authsvc.New(apiClient, tokens, cfg.Email, log),
		Snaps:    snapsvc.New(apiClient, tokens, log),
		Friends:  friendsvc.New(apiClient, tokens, log),
		Publish:  publishsvc.New(apiClient, tokens, log),
		API:      apiClient,
		HTTP:     httpClient,
	}, nil
}
