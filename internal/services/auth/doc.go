// Package auth orchestrates the login handshake and session lifecycle.
//
// Login walks the full pipeline: request token from the static token and the
// current timestamp, secondary token refresh, device-token fetch (which
// itself needs the secondary token), then the signed login request with the
// client-auth header. The session becomes authenticated only when the
// response carries both a username and a bearer token; every other outcome
// reverts it to unauthenticated.
//
// Restore rebuilds an authenticated session from a previously issued bearer
// token without re-running the handshake.
package auth
