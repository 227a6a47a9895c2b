package gauth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Authenticator is the slice of Client the token source needs.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Token, error)
}

// TokenSource hands out a valid secondary token, refreshing it lazily. The
// first call authenticates; later calls return the cached token until
// now >= expiry, at which point exactly one refresh happens inside the lock.
// There is no proactive refresh.
//
// It satisfies oauth2.TokenSource so callers can treat the provider like any
// other token backend.
type TokenSource struct {
	mu       sync.Mutex
	client   Authenticator
	email    string
	password string
	tok      Token
	now      func() time.Time
}

// NewTokenSource builds a source bound to one account.
func NewTokenSource(client Authenticator, email, password string) *TokenSource {
	return &TokenSource{
		client:   client,
		email:    email,
		password: password,
		now:      time.Now,
	}
}

// Token returns a token valid at the instant of the call.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	return ts.TokenContext(context.Background())
}

// TokenContext is Token with a caller-supplied context for the refresh call.
func (ts *TokenSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.tok.Value == "" || !ts.now().Before(ts.tok.Expiry) {
		tok, err := ts.client.Authenticate(ctx, ts.email, ts.password)
		if err != nil {
			return nil, err
		}
		ts.tok = tok
	}
	return &oauth2.Token{AccessToken: ts.tok.Value, Expiry: ts.tok.Expiry}, nil
}

var _ oauth2.TokenSource = (*TokenSource)(nil)
