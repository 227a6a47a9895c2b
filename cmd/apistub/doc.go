// Package main runs the in-memory API stub used during development and as an
// executable reference of the wire contract. It fakes both the identity
// provider and the app API for one configured account.
//
// HTTP API
//
//	POST /auth
//	    Identity-provider endpoint. A request with service=ac2dm answers
//	    with a master token; any other service answers with an access token
//	    and its expiry. Responses are key=value lines. A missing Email
//	    yields an Error=BadAuthentication line.
//
//	POST /loq/device_id
//	    Return the device-token pair {dtoken1i, dtoken1v}. Requires a valid
//	    gauth query parameter.
//
//	POST /loq/login
//	    Verify the request token and the dsig signature exactly the way the
//	    live server does, then answer with an updates_response carrying the
//	    username and a fresh bearer token — or with only a message when the
//	    credentials or signature are wrong.
//
//	POST /loq/all_updates
//	    Return the updates_response (friends list included) and the
//	    conversation feed with pending snaps.
//
//	POST /bq/blob
//	    Return the AES-encrypted payload of the snap named by the id form
//	    field.
//
//	POST /bq/stories, POST /bq/story_blob
//	    Friend stories with per-story key+iv, and their CBC-encrypted blobs.
//
//	POST /bq/friend, POST /bq/bests, POST /bq/update_snaps,
//	POST /ph/upload, POST /loq/send, POST /ph/settings, POST /ph/clear,
//	POST /ph/logout
//	    The remaining feed, friend and publish actions, answering with the
//	    same message predicates the client checks.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Authenticated routes demand the stub's gauth token and, where the
//     client sends one, the current bearer token.
//   - A lightweight access log records method, path, status and duration.
//   - The default listen address is :8080 with account demo/demo.
package main
