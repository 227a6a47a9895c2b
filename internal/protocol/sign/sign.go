package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Shared application secret baked into the official client.
	secret = "iEk21fuwZApXlz93750dmW22pw389dPwOk"

	// Static token used to derive the request token before login.
	StaticToken = "m198sOkJEn37DjqZ32lpRu76xmw288xSQ9"

	// Secret keying the client-auth header, independent of the
	// request-signature path.
	clientAuthSecret = "observed24HourClientAuthKey9382xmw7"

	// Bit pattern selecting, per output position, which of the two digests
	// contributes the character.
	hashPattern = "0001110111101110001111010101111011010001001110011000110001000110"

	signatureLen = 20
)

// RequestToken derives the per-request token from an auth token (or the
// static token before login) and a millisecond timestamp. Both inputs are
// hashed with the application secret and the two hex digests are interleaved
// according to the fixed bit pattern.
func RequestToken(authToken, timestamp string) string {
	first := hexDigest(secret + authToken)
	second := hexDigest(timestamp + secret)

	var b strings.Builder
	b.Grow(len(hashPattern))
	for i := 0; i < len(hashPattern); i++ {
		if hashPattern[i] == '0' {
			b.WriteByte(first[i])
		} else {
			b.WriteByte(second[i])
		}
	}
	return b.String()
}

// Signature computes the login request signature: hex HMAC-SHA256 keyed by
// the device-token secret over "username|password|timestamp|requestToken",
// truncated to 20 characters. Deterministic and byte-for-byte reproducible.
func Signature(key, username, password, timestamp, requestToken string) string {
	msg := strings.Join([]string{username, password, timestamp, requestToken}, "|")
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))[:signatureLen]
}

// ClientAuthHeader computes the X-Snapchat-Client-Auth value attached to the
// login request only: full hex HMAC-SHA256 under its own static secret over
// the same pipe-delimited triple.
func ClientAuthHeader(username, password, timestamp string) string {
	msg := strings.Join([]string{username, password, timestamp}, "|")
	mac := hmac.New(sha256.New, []byte(clientAuthSecret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func hexDigest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
