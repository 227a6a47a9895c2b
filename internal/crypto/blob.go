package crypto

import (
	"crypto/aes"
	"errors"

	"github.com/bramgg/snapy/internal/crypto/pkcs7"
)

// blobKey is the fixed AES-128 key every client uses for snap blobs.
var blobKey = []byte("M02cnQ51Ji97vwT4")

var errBadLength = errors.New("ciphertext not a multiple of the block size")

// DecryptBlob decrypts a snap blob: AES-128-ECB under the fixed key with
// PKCS#7 removal. Fails on malformed length or padding.
func DecryptBlob(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(blobKey)
	if err != nil {
		return nil, err
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errBadLength
	}
	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}
	return pkcs7.Unpad(aes.BlockSize, out)
}

// EncryptBlob is the inverse of DecryptBlob, used when uploading media.
func EncryptBlob(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(blobKey)
	if err != nil {
		return nil, err
	}
	padded := pkcs7.Pad(aes.BlockSize, plaintext)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return out, nil
}
