// Package snaps fetches the feed and turns downloaded blobs into media.
//
// The decode pipeline classifies the raw bytes first; when nothing matches,
// the blob is decrypted under the fixed snap cipher and classified again. A
// blob that still matches nothing is handed back with the Unknown kind
// rather than discarded — the caller decides whether to keep it.
package snaps
