// Package gauth obtains the short-lived secondary token the API demands on
// every call, using the documented android device-auth flow against the
// Google account service.
//
// The flow is two form-encoded POSTs: the credentials (RSA-OAEP encrypted
// under the provider's published key) buy a long-lived master token, which is
// then exchanged for an access token scoped to the Snapchat client. The
// provider answers with key=value lines; the access token arrives with an
// Expiry instant in epoch seconds.
//
// TokenSource caches the access token and refreshes it lazily: a token is
// never used at or past its expiry instant, and the check-then-refresh is
// atomic within one Token call.
package gauth
