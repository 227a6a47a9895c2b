// Package media classifies downloaded payloads by their leading bytes.
//
// The server declares a media type for every snap, but that field has been
// observed to be unreliable, so classification here inspects the first two
// bytes of the payload and is authoritative over anything the server says.
package media
