// Package pkcs7 implements PKCS#7 padding for block ciphers.
package pkcs7

import "errors"

// Errors Unpad can return.
var (
	ErrNotPadded    = errors.New("pkcs7: input not padded")
	ErrNotAMultiple = errors.New("pkcs7: input not a multiple of the block size")
	ErrBadPadding   = errors.New("pkcs7: invalid padding bytes")
)

// Pad appends PKCS#7 padding so len(out) is a multiple of blockSize.
// blockSize must be in [2, 255].
func Pad(blockSize int, b []byte) []byte {
	if blockSize <= 1 || blockSize >= 256 {
		panic("pkcs7: bad block size")
	}
	n := blockSize - len(b)%blockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad strips PKCS#7 padding, returning a slice of b.
func Unpad(blockSize int, b []byte) ([]byte, error) {
	if blockSize <= 1 || blockSize >= 256 {
		panic("pkcs7: bad block size")
	}
	if len(b) == 0 {
		return nil, ErrNotPadded
	}
	if len(b)%blockSize != 0 {
		return nil, ErrNotAMultiple
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, ErrBadPadding
	}
	for i := len(b) - n; i < len(b); i++ {
		if b[i] != byte(n) {
			return nil, ErrBadPadding
		}
	}
	return b[:len(b)-n], nil
}
