package snaps_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/crypto"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/media"
	"github.com/bramgg/snapy/internal/services/snaps"
)

type staticTokens struct{ tok string }

func (s staticTokens) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: s.tok}, nil
}

func session() *domain.Session {
	return &domain.Session{Username: "alice", BearerToken: "bearer-1", Email: "a@gmail.com"}
}

func TestDecode(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	t.Run("plain image passes through", func(t *testing.T) {
		blob, err := snaps.Decode(jpeg)
		require.NoError(t, err)
		assert.Equal(t, media.Image, blob.Kind)
		assert.Equal(t, jpeg, blob.Data)
	})

	t.Run("encrypted image is decrypted", func(t *testing.T) {
		ct, err := crypto.EncryptBlob(jpeg)
		require.NoError(t, err)

		blob, err := snaps.Decode(ct)
		require.NoError(t, err)
		assert.Equal(t, media.Image, blob.Kind)
		assert.Equal(t, jpeg, blob.Data)
	})

	t.Run("unknown payload is kept", func(t *testing.T) {
		ct, err := crypto.EncryptBlob([]byte("no magic here"))
		require.NoError(t, err)

		blob, err := snaps.Decode(ct)
		require.NoError(t, err)
		assert.Equal(t, media.Unknown, blob.Kind)
		assert.Equal(t, []byte("no magic here"), blob.Data)
	})

	t.Run("malformed ciphertext fails", func(t *testing.T) {
		_, err := snaps.Decode([]byte("x")) // too short for any cipher block
		assert.Error(t, err)
	})
}

func TestBlobEndToEnd(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	encrypted, err := crypto.EncryptBlob(jpeg)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bq/blob", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "snap-1", r.PostForm.Get("id"))
		assert.Equal(t, "Bearer bearer-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("gauth"))
		w.Write(encrypted)
	}))
	defer srv.Close()

	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)
	blob, err := svc.Blob(context.Background(), session(), "snap-1")
	require.NoError(t, err)

	assert.Equal(t, media.Image, blob.Kind)
	assert.Equal(t, "jpg", media.Extension(blob.Kind))
	assert.Equal(t, jpeg, blob.Data)
}

func TestBlobDecodeErrorCarriesSnapID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bad")) // neither recognisable nor decryptable
	}))
	defer srv.Close()

	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)
	_, err := svc.Blob(context.Background(), session(), "snap-9")

	var derr *domain.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "snap-9", derr.ID)
}

func TestUpdatesRefreshesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/loq/all_updates", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.UpdatesEnvelope{
			Updates: &api.Updates{Username: "alice", AuthToken: "bearer-2"},
			Conversations: []domain.Conversation{{
				ID:      "conv-1",
				Pending: []domain.Snap{{ID: "snap-1", Sender: "bob"}},
			}},
		})
	}))
	defer srv.Close()

	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)
	s := session()

	pending, err := svc.Pending(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bob", pending[0].Sender)
	assert.Equal(t, "bearer-2", s.BearerToken)
}

func TestUpdatesRequiresAuthenticatedSession(t *testing.T) {
	svc := snaps.New(api.NewClient("http://unused.invalid", nil, nil), staticTokens{"g"}, nil)

	_, err := svc.Pending(context.Background(), &domain.Session{Username: "alice"})
	var lerr *domain.LoginError
	require.ErrorAs(t, err, &lerr)
}

// Restore followed immediately by an authenticated call works without an
// explicit login.
func TestRestoredSessionFetchesUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer bearer-restored", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(api.UpdatesEnvelope{
			Updates: &api.Updates{Username: "alice"},
		})
	}))
	defer srv.Close()

	s := &domain.Session{Username: "alice", BearerToken: "bearer-restored"}
	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)

	_, err := svc.Updates(context.Background(), s)
	require.NoError(t, err)
	// No auth_token in the response: the restored one stays.
	assert.Equal(t, "bearer-restored", s.BearerToken)
}

func TestStoryBlob(t *testing.T) {
	key := []byte("0123456789abcdef")
	iv := []byte("fedcba9876543210")
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE1, 0xAA}
	encrypted, err := crypto.EncryptStory(jpeg, key, iv)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bq/story_blob", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "media-1", r.PostForm.Get("story_id"))
		w.Write(encrypted)
	}))
	defer srv.Close()

	st := domain.Story{
		ID:       "story-1",
		MediaID:  "media-1",
		MediaKey: base64.StdEncoding.EncodeToString(key),
		MediaIV:  base64.StdEncoding.EncodeToString(iv),
	}
	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)
	blob, err := svc.StoryBlob(context.Background(), session(), st)
	require.NoError(t, err)

	assert.Equal(t, media.Image, blob.Kind)
	assert.Equal(t, jpeg, blob.Data)
}

type snapEvent struct {
	EventName string            `json:"eventName"`
	Params    map[string]string `json:"params"`
	TS        int64             `json:"ts"`
}

func TestMarkViewedEmitsViewAndExpiry(t *testing.T) {
	var events []snapEvent
	var update map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bq/update_snaps", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("events")), &events))
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("json")), &update))
	}))
	defer srv.Close()

	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)
	require.NoError(t, svc.MarkViewed(context.Background(), session(), "snap-1", 7))

	require.Len(t, events, 2)
	assert.Equal(t, "SNAP_VIEW", events[0].EventName)
	assert.Equal(t, "snap-1", events[0].Params["id"])
	assert.Equal(t, "SNAP_EXPIRED", events[1].EventName)
	assert.Equal(t, "snap-1", events[1].Params["id"])
	// The view starts its duration before it expires.
	assert.Equal(t, events[1].TS-7, events[0].TS)

	require.Contains(t, update, "snap-1")
	assert.EqualValues(t, 7, update["snap-1"]["sv"])
	assert.EqualValues(t, events[1].TS, update["snap-1"]["t"])
}

func TestMarkScreenshot(t *testing.T) {
	var events []snapEvent
	var update map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("events")), &events))
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("json")), &update))
	}))
	defer srv.Close()

	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)
	require.NoError(t, svc.MarkScreenshot(context.Background(), session(), "snap-2"))

	require.Len(t, events, 1)
	assert.Equal(t, "SNAP_SCREENSHOT", events[0].EventName)

	require.Contains(t, update, "snap-2")
	assert.EqualValues(t, 1, update["snap-2"]["sv"])
	assert.EqualValues(t, 3, update["snap-2"]["c"])
	assert.EqualValues(t, events[0].TS+1, update["snap-2"]["t"])
}

func TestStoryBlobBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 16))
	}))
	defer srv.Close()

	st := domain.Story{ID: "story-2", MediaKey: "!!not base64!!", MediaIV: ""}
	svc := snaps.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"g"}, nil)

	_, err := svc.StoryBlob(context.Background(), session(), st)
	var derr *domain.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "story-2", derr.ID)
}
