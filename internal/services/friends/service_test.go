package friends_test

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
	"github.com/bramgg/snapy/internal/services/friends"
)

type staticTokens struct{}

func (staticTokens) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "g"}, nil
}

func session() *domain.Session {
	return &domain.Session{Username: "alice", BearerToken: "bearer-1"}
}

func TestListSplitsBlocked(t *testing.T) {
	// Raw feed pins the wire values: 0 confirmed, 1 unconfirmed, 2 blocked.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"updates_response":{"username":"alice","friends":[
			{"name":"bob","type":0},
			{"name":"mallory","type":2},
			{"name":"dave","type":1},
			{"name":"carol","type":0}
		]}}`))
	}))
	defer srv.Close()

	svc := friends.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{}, nil)

	list, err := svc.List(context.Background(), session())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "bob", list[0].Name)
	assert.Equal(t, "dave", list[1].Name)

	blocked, err := svc.Blocked(context.Background(), session())
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "mallory", blocked[0].Name)
}

func TestAdd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bq/friend", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "add", r.PostForm.Get("action"))
		assert.Equal(t, "bob", r.PostForm.Get("friend"))
		assert.Equal(t, "ADDED_BY_USERNAME", r.PostForm.Get("added_by"))
		_ = json.NewEncoder(w).Encode(api.Message{Message: "bob is now your friend!", Logged: true})
	}))
	defer srv.Close()

	svc := friends.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{}, nil)
	assert.NoError(t, svc.Add(context.Background(), session(), "bob"))
}

func TestAddRejectedMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Message{Message: "Sorry! Couldn't find bob"})
	}))
	defer srv.Close()

	svc := friends.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{}, nil)
	err := svc.Add(context.Background(), session(), "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Couldn't find bob")
}

func TestBlockUnblock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("action") {
		case "block":
			_ = json.NewEncoder(w).Encode(api.Message{Message: "mallory was blocked"})
		case "unblock":
			_ = json.NewEncoder(w).Encode(api.Message{Message: "mallory was unblocked"})
		default:
			http.Error(w, "bad action", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	svc := friends.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{}, nil)
	assert.NoError(t, svc.Block(context.Background(), session(), "mallory"))
	assert.NoError(t, svc.Unblock(context.Background(), session(), "mallory"))
}

func TestBest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bq/bests", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.BestFriends{BestFriends: []string{"bob", "carol"}})
	}))
	defer srv.Close()

	svc := friends.New(api.NewClient(srv.URL, srv.Client(), nil), staticTokens{}, nil)
	best, err := svc.Best(context.Background(), session())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, best)
}
