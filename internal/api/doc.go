// Package api is the HTTP transport for the app's fixed API host.
//
// It is a thin wrapper around net/http shaped by an Opts value per call:
// form-encoded or multipart POSTs, per-call query parameters, a bearer token
// when the session has one. Responses with non-2xx statuses become
// domain.TransportError; no retries, no backoff, no deadlines of its own —
// cancellation and timeouts belong to the caller's context.
package api
