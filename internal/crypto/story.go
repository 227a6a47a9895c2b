package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/bramgg/snapy/internal/crypto/pkcs7"
)

var errBadIV = errors.New("iv must be one block")

// DecryptStory decrypts a story blob: AES-CBC with the explicit per-story
// key and IV from the story metadata, PKCS#7 removal.
func DecryptStory(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, errBadIV
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errBadLength
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7.Unpad(aes.BlockSize, out)
}

// EncryptStory is the inverse of DecryptStory. The live client never posts
// stories, but the stub server uses it to build fixture blobs.
func EncryptStory(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, errBadIV
	}
	padded := pkcs7.Pad(aes.BlockSize, plaintext)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}
