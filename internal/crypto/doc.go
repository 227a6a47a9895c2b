// Package crypto implements the two blob ciphers used by the API.
//
// Ordinary snap blobs are encrypted with AES-128 in ECB mode under one fixed
// key shared by every client. Story blobs use AES in CBC mode with an
// explicit per-story key and IV carried in the story metadata. Both use
// PKCS#7 padding. The two paths are not interchangeable.
//
// The fixed key and the cipher choices are an external contract verified
// against the live service; they must not be altered.
package crypto
