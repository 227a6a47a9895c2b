// Package store persists the session on disk between runs.
//
// The session file is an encrypted JSON envelope: the payload is sealed with
// ChaCha20-Poly1305 under a key scrypt-derived from the user's passphrase.
// Writes go through a temp file and rename so a crash never leaves a
// half-written session behind. Keeping the bearer token around is what makes
// restores possible when the login endpoint itself is broken.
package store
