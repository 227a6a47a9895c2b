package snaps

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/crypto"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/media"
	"github.com/bramgg/snapy/internal/protocol/sign"
)

// Service reads the snap feed and decodes blobs.
type Service struct {
	api    *api.Client
	tokens domain.SecondaryTokenSource
	log    logrus.FieldLogger
	now    func() time.Time
}

// New constructs the snaps service.
func New(apiClient *api.Client, tokens domain.SecondaryTokenSource, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{api: apiClient, tokens: tokens, log: log, now: time.Now}
}

// Updates fetches the full update feed. The response may carry a fresh
// bearer token; when it does, the session is updated in place.
func (s *Service) Updates(ctx context.Context, session *domain.Session) (*api.UpdatesEnvelope, error) {
	if !session.Authenticated() {
		return nil, &domain.LoginError{Username: session.Username, Message: "not logged in"}
	}
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return nil, err
	}

	form := s.baseForm(session, ts)
	setScreen(form)
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
	if resp.Updates != nil {
		session.SetBearerToken(resp.Updates.AuthToken)
	}
	return &resp, nil
}

// Conversations returns the conversation feed.
func (s *Service) Conversations(ctx context.Context, session *domain.Session) ([]domain.Conversation, error) {
	resp, err := s.Updates(ctx, session)
	if err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// Pending flattens the pending received snaps of every conversation.
func (s *Service) Pending(ctx context.Context, session *domain.Session) ([]domain.Snap, error) {
	convs, err := s.Conversations(ctx, session)
	if err != nil {
		return nil, err
	}
	var out []domain.Snap
	for _, c := range convs {
		out = append(out, c.Pending...)
	}
	return out, nil
}

// Blob downloads one snap payload and runs the decode pipeline.
func (s *Service) Blob(ctx context.Context, session *domain.Session, snapID string) (media.Blob, error) {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return media.Blob{}, err
	}

	form := s.baseForm(session, ts)
	form.Set("id", snapID)
	raw, err := s.api.Call(ctx, api.Opts{
		Path:   "/bq/blob",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   form,
	})
	if err != nil {
		return media.Blob{}, err
	}
	blob, err := Decode(raw)
	if err != nil {
		return media.Blob{}, &domain.DecodeError{ID: snapID, Err: err}
	}
	if blob.Kind == media.Unknown {
		s.log.WithField("snap", snapID).Warn("blob kind unknown, keeping raw bytes")
	}
	return blob, nil
}

// Decode classifies raw download bytes, decrypting under the fixed snap
// cipher when the raw bytes match no known type. A payload that is still
// unrecognised after decryption is returned with the Unknown kind.
func Decode(raw []byte) (media.Blob, error) {
	if kind := media.Classify(raw); kind != media.Unknown {
		return media.Blob{Data: raw, Kind: kind, Zip: media.IsZip(raw)}, nil
	}
	plain, err := crypto.DecryptBlob(raw)
	if err != nil {
		return media.Blob{}, errors.Wrap(err, "decrypt")
	}
	return media.Blob{Data: plain, Kind: media.Classify(plain), Zip: media.IsZip(plain)}, nil
}

// FriendStories fetches the available friend stories with their decryption
// material.
func (s *Service) FriendStories(ctx context.Context, session *domain.Session) ([]domain.Story, error) {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return nil, err
	}

	var resp api.FriendStories
	err = s.api.CallJSON(ctx, api.Opts{
		Path:   "/bq/stories",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   s.baseForm(session, ts),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Stories(), nil
}

// StoryBlob downloads one story payload and decrypts it with the explicit
// per-story key and IV from the story metadata.
func (s *Service) StoryBlob(ctx context.Context, session *domain.Session, st domain.Story) (media.Blob, error) {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return media.Blob{}, err
	}

	form := s.baseForm(session, ts)
	form.Set("story_id", st.MediaID)
	raw, err := s.api.Call(ctx, api.Opts{
		Path:   "/bq/story_blob",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   form,
	})
	if err != nil {
		return media.Blob{}, err
	}

	key, err := base64.StdEncoding.DecodeString(st.MediaKey)
	if err != nil {
		return media.Blob{}, &domain.DecodeError{ID: st.ID, Err: errors.Wrap(err, "media key")}
	}
	iv, err := base64.StdEncoding.DecodeString(st.MediaIV)
	if err != nil {
		return media.Blob{}, &domain.DecodeError{ID: st.ID, Err: errors.Wrap(err, "media iv")}
	}
	plain, err := crypto.DecryptStory(raw, key, iv)
	if err != nil {
		return media.Blob{}, &domain.DecodeError{ID: st.ID, Err: err}
	}
	return media.Blob{Data: plain, Kind: media.Classify(plain), Zip: media.IsZip(plain)}, nil
}

// MarkViewed reports a snap as viewed for the given number of seconds. The
// view is reported as a pair of events: the view itself, timestamped when
// viewing started, and the expiry at the current instant.
func (s *Service) MarkViewed(ctx context.Context, session *domain.Session, snapID string, seconds int) error {
	now := s.now().Unix()
	events := []map[string]any{
		{
			"eventName": "SNAP_VIEW",
			"params":    map[string]string{"id": snapID},
			"ts":        now - int64(seconds),
		},
		{
			"eventName": "SNAP_EXPIRED",
			"params":    map[string]string{"id": snapID},
			"ts":        now,
		},
	}
	return s.sendEvents(ctx, session, snapID, events, map[string]any{
		"t":  now,
		"sv": seconds,
	})
}

// MarkScreenshot reports a snap as screenshotted after a one-second view.
func (s *Service) MarkScreenshot(ctx context.Context, session *domain.Session, snapID string) error {
	const seconds = 1
	now := s.now().Unix()
	events := []map[string]any{{
		"eventName": "SNAP_SCREENSHOT",
		"params":    map[string]string{"id": snapID},
		"ts":        now - seconds,
	}}
	return s.sendEvents(ctx, session, snapID, events, map[string]any{
		"t":  now,
		"sv": seconds,
		"c":  3,
	})
}

// sendEvents posts the event list plus the per-snap update object,
// preserving the double-encoded payload shape the endpoint expects.
func (s *Service) sendEvents(ctx context.Context, session *domain.Session, snapID string, eventList []map[string]any, update map[string]any) error {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return err
	}

	events, err := json.Marshal(eventList)
	if err != nil {
		return err
	}
	snapInfo, err := json.Marshal(map[string]any{snapID: update})
	if err != nil {
		return err
	}

	form := s.baseForm(session, ts)
	form.Set("events", string(events))
	form.Set("json", string(snapInfo))
	_, err = s.api.Call(ctx, api.Opts{
		Path:   "/bq/update_snaps",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   form,
	})
	return err
}

// ClearFeed wipes the feed server-side.
func (s *Service) ClearFeed(ctx context.Context, session *domain.Session) error {
	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return err
	}
	_, err = s.api.Call(ctx, api.Opts{
		Path:   "/ph/clear",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   s.baseForm(session, ts),
	})
	return err
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

// setScreen adds the screen dimensions the update feed expects.
func setScreen(form url.Values) {
	form.Set("height", "1280")
	form.Set("width", "720")
	form.Set("max_video_height", "640")
	form.Set("max_video_width", "480")
}

var _ domain.SnapService = (*Service)(nil)
