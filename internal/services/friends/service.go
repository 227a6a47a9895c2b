package friends

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/protocol/sign"
)

// Service manages the friends list.
type Service struct {
	api    *api.Client
	tokens domain.SecondaryTokenSource
	log    logrus.FieldLogger
	now    func() time.Time
}

// New constructs the friends service.
func New(apiClient *api.Client, tokens domain.SecondaryTokenSource, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{api: apiClient, tokens: tokens, log: log, now: time.Now}
}

// List returns the friends list from the update feed.
func (s *Service) List(ctx context.Context, session *domain.Session) ([]domain.Friend, error) {
	upd, err := s.updates(ctx, session)
	if err != nil {
		return nil, err
	}
	var out []domain.Friend
	for _, f := range upd.Friends {
		if f.Type != domain.FriendTypeBlocked {
			out = append(out, f)
		}
	}
	return out, nil
}

// Blocked returns the blocked entries of the friends list.
func (s *Service) Blocked(ctx context.Context, session *domain.Session) ([]domain.Friend, error) {
	upd, err := s.updates(ctx, session)
	if err != nil {
		return nil, err
	}
	var out []domain.Friend
	for _, f := range upd.Friends {
		if f.Type == domain.FriendTypeBlocked {
			out = append(out, f)
		}
	}
	return out, nil
}

// Best returns the best-friend usernames.
func (s *Service) Best(ctx context.Context, session *domain.Session) ([]string, error) {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return nil, err
	}
	var resp api.BestFriends
	err = s.api.CallJSON(ctx, api.Opts{
		Path:   "/bq/bests",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   s.baseForm(session, ts),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.BestFriends, nil
}

// Add sends a friend request.
func (s *Service) Add(ctx context.Context, session *domain.Session, username string) error {
	return s.action(ctx, session, "add", username, func(msg string) bool {
		return strings.HasSuffix(msg, "is now your friend!") ||
			strings.Contains(msg, "Your friend request is pending")
	})
}

// Delete removes a friend.
func (s *Service) Delete(ctx context.Context, session *domain.Session, username string) error {
	return s.action(ctx, session, "delete", username, func(msg string) bool {
		return strings.Contains(msg, "deleted")
	})
}

// Block blocks a user.
func (s *Service) Block(ctx context.Context, session *domain.Session, username string) error {
	return s.action(ctx, session, "block", username, func(msg string) bool {
		return strings.Contains(msg, "was blocked")
	})
}

// Unblock unblocks a user.
func (s *Service) Unblock(ctx context.Context, session *domain.Session, username string) error {
	return s.action(ctx, session, "unblock", username, func(msg string) bool {
		return strings.Contains(msg, "was unblocked")
	})
}

// updates fetches the update feed; the friends list rides along with it.
func (s *Service) updates(ctx context.Context, session *domain.Session) (*api.Updates, error) {
	if !session.Authenticated() {
		return nil, &domain.LoginError{Username: session.Username, Message: "not logged in"}
	}
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return nil, err
	}
	form := s.baseForm(session, ts)
	form.Set("height", "1280")
	form.Set("width", "720")
	form.Set("max_video_height", "640")
	form.Set("max_video_width", "480")
	var resp api.UpdatesEnvelope
	err = s.api.CallJSON(ctx, api.Opts{
		Path:   "/loq/all_updates",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   form,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Updates == nil {
		return nil, errors.New("updates response missing")
	}
	session.SetBearerToken(resp.Updates.AuthToken)
	return resp.Updates, nil
}

// action performs one /bq/friend action and judges success from the
// response message.
func (s *Service) action(ctx context.Context, session *domain.Session, action, friend string, ok func(string) bool) error {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return err
	}

	form := s.baseForm(session, ts)
	form.Set("action", action)
	form.Set("friend", friend)
	if action == "add" {
		form.Set("added_by", "ADDED_BY_USERNAME")
	}

	var resp api.Message
	err = s.api.CallJSON(ctx, api.Opts{
		Path:   "/bq/friend",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   form,
	}, &resp)
	if err != nil {
		return err
	}
	if !ok(resp.Message) {
		return errors.Errorf("friend %s %s: %s", action, friend, resp.Message)
	}
	s.log.WithFields(logrus.Fields{"action": action, "friend": friend}).Debug("friend action ok")
	return nil
}

func (s *Service) baseForm(session *domain.Session, ts string) url.Values {
	return url.Values{
		"username":  {session.Username},
		"timestamp": {ts},
		"req_token": {sign.RequestToken(session.BearerToken, ts)},
	}
}

func timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

var _ domain.FriendService = (*Service)(nil)
