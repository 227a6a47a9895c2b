package domain

import "fmt"

// AuthError reports a failure to obtain a secondary-provider token: a
// rejection by the identity provider or a network failure while talking to
// it. It is fatal and never retried by the core.
type AuthError struct {
	Email string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("secondary auth for %s: %v", e.Email, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// LoginError reports that the API rejected the login itself. Message is the
// server's human-readable explanation, surfaced verbatim.
type LoginError struct {
	Username string
	Message  string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login as %s rejected: %s", e.Username, e.Message)
}

// DecodeError reports a blob that could not be decrypted or whose structure
// was not recognised. Recoverable per blob: the caller skips the item and
// moves on. ID identifies the snap or story involved.
type DecodeError struct {
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode blob %s: %v", e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError reports a non-2xx HTTP status or a connection failure.
// Propagated as-is; the core performs no retries.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when the connection itself failed
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }
