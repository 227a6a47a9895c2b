package auth

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/protocol/sign"
)

const (
	applicationID = "com.snapchat.android"
	preauthToken  = "ie"

	// Attestation blob the era's client submitted for the stock APK.
	defaultAttestation = "ClZKdm9aV1ZzTG5OdVlYQmphR0YwTG1GdVpISnZhV1FnYVhNZ2RHaGxJRzl1YkhrZ2IyNWw"
)

// Service performs login, restore and session teardown against the API.
type Service struct {
	api    *api.Client
	tokens domain.SecondaryTokenSource
	email  string
	log    logrus.FieldLogger
	now    func() time.Time
}

// New constructs the auth service. email is the secondary-provider account
// bound to the token source; it is recorded on sessions for restores.
func New(apiClient *api.Client, tokens domain.SecondaryTokenSource, email string, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		api:    apiClient,
		tokens: tokens,
		email:  email,
		log:    log,
		now:    time.Now,
	}
}

// Login runs the full handshake and returns an authenticated session.
// Secondary-provider failures surface as *domain.AuthError, a server-side
// rejection as *domain.LoginError carrying the server's message. Nothing is
// retried.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	ts := timestamp(s.now())
	reqToken := sign.RequestToken(sign.StaticToken, ts)

	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return nil, err
	}

	// The device-token fetch itself requires a valid secondary token, hence
	// the refresh above comes first.
	var device api.DeviceToken
	err = s.api.CallJSON(ctx, api.Opts{
		Path:  "/loq/device_id",
		Query: api.AuthQuery(ts, gtok.AccessToken),
		Form:  url.Values{"timestamp": {ts}, "req_token": {reqToken}},
	}, &device)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{Username: username, Email: s.email}
	dsig := sign.Signature(device.Secret, username, password, ts, reqToken)

	var resp api.UpdatesEnvelope
	err = s.api.CallJSON(ctx, api.Opts{
		Path:  "/loq/login",
		Query: api.AuthQuery(ts, gtok.AccessToken),
		Header: map[string][]string{
			"X-Snapchat-Client-Auth": {sign.ClientAuthHeader(username, password, ts)},
		},
		Form: url.Values{
			"username":         {username},
			"password":         {password},
			"timestamp":        {ts},
			"req_token":        {reqToken},
			"dsig":             {dsig},
			"dtoken1i":         {device.ID},
			"ptoken":           {preauthToken},
			"attestation":      {defaultAttestation},
			"sflag":            {"1"},
			"application_id":   {applicationID},
			"height":           {"1280"},
			"width":            {"720"},
			"max_video_height": {"640"},
			"max_video_width":  {"480"},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Updates == nil || resp.Updates.AuthToken == "" || resp.Updates.Username == "" {
		session.Reset()
		return nil, &domain.LoginError{Username: username, Message: resp.Message}
	}

	session.Username = resp.Updates.Username
	session.SetBearerToken(resp.Updates.AuthToken)
	s.log.WithField("username", session.Username).Info("logged in")
	return session, nil
}

// Restore rebuilds an authenticated session from a previously issued bearer
// token, skipping the handshake, and eagerly primes the secondary token so
// the first authenticated call cannot stall on a refresh.
func (s *Service) Restore(ctx context.Context, username, bearerToken string) (*domain.Session, error) {
	if _, err := s.tokens.TokenContext(ctx); err != nil {
		return nil, err
	}
	session := &domain.Session{Username: username, Email: s.email}
	session.SetBearerToken(bearerToken)
	s.log.WithField("username", username).Debug("session restored")
	return session, nil
}

// Logout invalidates the session server-side and reverts it locally.
func (s *Service) Logout(ctx context.Context, session *domain.Session) error {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return err
	}
	_, err = s.api.Call(ctx, api.Opts{
		Path:   "/ph/logout",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form: url.Values{
			"username":  {session.Username},
			"timestamp": {ts},
			"req_token": {sign.RequestToken(session.BearerToken, ts)},
		},
	})
	if err != nil {
		return err
	}
	session.Reset()
	return nil
}

// UpdatePrivacy switches who may send the user snaps.
func (s *Service) UpdatePrivacy(ctx context.Context, session *domain.Session, p domain.PrivacySetting) error {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return err
	}
	var resp struct {
		Param  string `json:"param"`
		Logged bool   `json:"logged"`
	}
	err = s.api.CallJSON(ctx, api.Opts{
		Path:   "/ph/settings",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form: url.Values{
			"username":       {session.Username},
			"timestamp":      {ts},
			"req_token":      {sign.RequestToken(session.BearerToken, ts)},
			"action":         {"updatePrivacy"},
			"privacySetting": {strconv.Itoa(int(p))},
		},
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.Logged || resp.Param != strconv.Itoa(int(p)) {
		return &domain.LoginError{Username: session.Username, Message: "privacy update rejected"}
	}
	return nil
}

func timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

var _ domain.AuthService = (*Service)(nil)
