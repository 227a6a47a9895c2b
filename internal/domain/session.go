package domain

// Session is the mutable client-side state for one logged-in user.
//
// It is created empty, populated by a successful login (or a restore from a
// previously issued bearer token), and mutated afterwards only through
// SetBearerToken whenever a response carries a fresh token. The short-lived
// secondary-provider token is deliberately NOT part of the session; it lives
// in its own guarded token source so the expiry check-then-refresh stays
// atomic within a single call.
//
// A Session is not safe for concurrent mutation. Callers issuing parallel
// requests hold one Session per worker.
type Session struct {
	Username    string `json:"username"`
	BearerToken string `json:"bearer_token"`
	Email       string `json:"email"`
}

// Authenticated reports whether the session can make authenticated calls.
// Until login or restore succeeds, every operation on the session must fail.
func (s *Session) Authenticated() bool {
	return s.Username != "" && s.BearerToken != ""
}

// SetBearerToken replaces the bearer token when the server issued a new one.
// Empty tokens are ignored so a partial response cannot wipe a valid session.
func (s *Session) SetBearerToken(tok string) {
	if tok != "" {
		s.BearerToken = tok
	}
}

// Reset reverts the session to the unauthenticated state.
func (s *Session) Reset() {
	s.BearerToken = ""
}
