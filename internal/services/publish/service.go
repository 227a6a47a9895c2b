package publish

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/crypto"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/media"
	"github.com/bramgg/snapy/internal/protocol/sign"
)

// DefaultSeconds is the view time used when the caller passes none.
const DefaultSeconds = 5

// Service uploads and sends media.
type Service struct {
	api    *api.Client
	tokens domain.SecondaryTokenSource
	log    logrus.FieldLogger
	now    func() time.Time
}

// New constructs the publish service.
func New(apiClient *api.Client, tokens domain.SecondaryTokenSource, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{api: apiClient, tokens: tokens, log: log, now: time.Now}
}

// MediaID builds a fresh upload id: the uppercased username, a tilde, and a
// random UUID.
func MediaID(username string) string {
	return strings.ToUpper(username) + "~" + uuid.NewString()
}

// Send encrypts and uploads blob, then sends it to every recipient with the
// given view time. seconds <= 0 means DefaultSeconds.
func (s *Service) Send(ctx context.Context, session *domain.Session, recipients []string, blob []byte, seconds int) error {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	kind := media.Classify(blob)

	ts := timestamp(s.now())
	gtok, err := s.tokens.TokenContext(ctx)
	if err != nil {
		return err
	}

	encrypted, err := crypto.EncryptBlob(blob)
	if err != nil {
		return err
	}

	mediaID := MediaID(session.Username)
	form := s.baseForm(session, ts)
	form.Set("media_id", mediaID)
	form.Set("type", strconv.Itoa(int(kind)))
	_, err = s.api.Call(ctx, api.Opts{
		Path:     "/ph/upload",
		Bearer:   session.BearerToken,
		Query:    api.AuthQuery(ts, gtok.AccessToken),
		Form:     form,
		File:     encrypted,
		FileName: mediaID,
	})
	if err != nil {
		return err
	}

	rcpts, err := json.Marshal(recipients)
	if err != nil {
		return err
	}
	ts = timestamp(s.now())
	form = s.baseForm(session, ts)
	form.Set("media_id", mediaID)
	form.Set("recipients", string(rcpts))
	form.Set("time", strconv.Itoa(seconds))
	form.Set("zipped", "0")
	_, err = s.api.Call(ctx, api.Opts{
		Path:   "/loq/send",
		Bearer: session.BearerToken,
		Query:  api.AuthQuery(ts, gtok.AccessToken),
		Form:   form,
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"media_id":   mediaID,
		"recipients": len(recipients),
	}).Info("snap sent")
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

var _ domain.PublishService = (*Service)(nil)
