package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/protocol/sign"
	"github.com/bramgg/snapy/internal/services/auth"
)

type staticTokens struct{ tok string }

func (s staticTokens) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: s.tok}, nil
}

// newAPIServer fakes the login endpoints: the device-token fetch demands the
// secondary token, the login verifies the request signature the same way the
// live server does.
func newAPIServer(t *testing.T, password string) *httptest.Server {
	t.Helper()
	const (
		dtokenID     = "dtoken-id"
		dtokenSecret = "dtoken-secret"
	)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/loq/device_id":
			if r.URL.Query().Get("gauth") == "" {
				http.Error(w, "missing gauth", http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(api.DeviceToken{ID: dtokenID, Secret: dtokenSecret})

		case "/loq/login":
			require.NoError(t, r.ParseForm())
			username := r.PostForm.Get("username")
			ts := r.PostForm.Get("timestamp")
			reqToken := r.PostForm.Get("req_token")

			assert.Equal(t, sign.RequestToken(sign.StaticToken, ts), reqToken)
			assert.Equal(t, dtokenID, r.PostForm.Get("dtoken1i"))
			assert.NotEmpty(t, r.Header.Get("X-Snapchat-Client-Auth"))
			assert.Equal(t, "1280", r.PostForm.Get("height"))
			assert.Equal(t, "720", r.PostForm.Get("width"))
			assert.Equal(t, "640", r.PostForm.Get("max_video_height"))
			assert.Equal(t, "480", r.PostForm.Get("max_video_width"))

			want := sign.Signature(dtokenSecret, username, password, ts, reqToken)
			if r.PostForm.Get("dsig") != want || r.PostForm.Get("password") != password {
				_ = json.NewEncoder(w).Encode(api.UpdatesEnvelope{
					Message: "Invalid username or password",
				})
				return
			}
			_ = json.NewEncoder(w).Encode(api.UpdatesEnvelope{
				Updates: &api.Updates{Username: username, AuthToken: "bearer-1"},
			})

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
}

func TestLoginSuccess(t *testing.T) {
	srv := newAPIServer(t, "hunter2")
	defer srv.Close()

	svc := auth.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"gauth-tok"}, "a@gmail.com", nil)
	session, err := svc.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	assert.True(t, session.Authenticated())
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "bearer-1", session.BearerToken)
	assert.Equal(t, "a@gmail.com", session.Email)
}

func TestLoginRejected(t *testing.T) {
	srv := newAPIServer(t, "hunter2")
	defer srv.Close()

	svc := auth.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"gauth-tok"}, "a@gmail.com", nil)
	session, err := svc.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Nil(t, session)

	var lerr *domain.LoginError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "alice", lerr.Username)
	assert.Equal(t, "Invalid username or password", lerr.Message)
}

func TestUpdatePrivacy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ph/settings", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "updatePrivacy", r.PostForm.Get("action"))
		setting := r.PostForm.Get("privacySetting")
		require.NotEmpty(t, setting)
		_ = json.NewEncoder(w).Encode(struct {
			Param  string `json:"param"`
			Logged bool   `json:"logged"`
		}{Param: setting, Logged: true})
	}))
	defer srv.Close()

	svc := auth.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{"gauth-tok"}, "a@gmail.com", nil)
	session := &domain.Session{Username: "alice", BearerToken: "bearer-1"}
	assert.NoError(t, svc.UpdatePrivacy(context.Background(), session, domain.PrivacyFriends))
}

func TestRestore(t *testing.T) {
	svc := auth.New(api.NewClient("http://unused.invalid", nil, nil), staticTokens{"gauth-tok"}, "a@gmail.com", nil)

	session, err := svc.Restore(context.Background(), "alice", "bearer-restored")
	require.NoError(t, err)
	assert.True(t, session.Authenticated())
	assert.Equal(t, "bearer-restored", session.BearerToken)
}
