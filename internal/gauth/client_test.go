package gauth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/gauth"
)

func TestAuthenticate(t *testing.T) {
	var masterSeen, accessSeen bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user@gmail.com", r.PostForm.Get("Email"))

		switch r.PostForm.Get("service") {
		case "ac2dm":
			masterSeen = true
			assert.NotEmpty(t, r.PostForm.Get("EncryptedPasswd"))
			fmt.Fprintln(w, "SID=sid-value")
			fmt.Fprintln(w, "Token=master-token")
		default:
			accessSeen = true
			assert.Equal(t, "master-token", r.PostForm.Get("EncryptedPasswd"))
			assert.Equal(t, "com.snapchat.android", r.PostForm.Get("app"))
			fmt.Fprintln(w, "Auth=access-token")
			fmt.Fprintln(w, "Expiry=1440000000")
		}
	}))
	defer srv.Close()

	c := gauth.NewClient(srv.URL, srv.Client(), nil)
	tok, err := c.Authenticate(context.Background(), "user@gmail.com", "pw")
	require.NoError(t, err)

	assert.True(t, masterSeen)
	assert.True(t, accessSeen)
	assert.Equal(t, "access-token", tok.Value)
	assert.Equal(t, int64(1440000000), tok.Expiry.Unix())
}

func TestAuthenticateBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprintln(w, "Error=BadAuthentication")
	}))
	defer srv.Close()

	c := gauth.NewClient(srv.URL, srv.Client(), nil)
	_, err := c.Authenticate(context.Background(), "user@gmail.com", "wrong")
	require.Error(t, err)

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "user@gmail.com", authErr.Email)
	assert.Contains(t, err.Error(), "BadAuthentication")
}

func TestAuthenticateNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := gauth.NewClient(srv.URL, nil, nil)
	_, err := c.Authenticate(context.Background(), "user@gmail.com", "pw")

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
}
