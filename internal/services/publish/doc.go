// Package publish uploads media and sends it to recipients.
//
// An upload is a two-step exchange: a multipart POST of the encrypted blob
// under a fresh media id, then a send referencing that id. Media ids follow
// the USERNAME~UUID shape the server enforces.
package publish
