package sign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bramgg/snapy/internal/protocol/sign"
)

func TestRequestTokenDeterministic(t *testing.T) {
	a := sign.RequestToken(sign.StaticToken, "1440000000000")
	b := sign.RequestToken(sign.StaticToken, "1440000000000")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	// Changing either input changes the output.
	assert.NotEqual(t, a, sign.RequestToken(sign.StaticToken, "1440000000001"))
	assert.NotEqual(t, a, sign.RequestToken("someAuthToken", "1440000000000"))
}

func TestSignature(t *testing.T) {
	const (
		key       = "dtoken1v-value"
		user      = "alice"
		pass      = "hunter2"
		ts        = "1440000000000"
		reqToken  = "abcdef0123456789"
	)

	got := sign.Signature(key, user, pass, ts, reqToken)
	assert.Len(t, got, 20)
	assert.Equal(t, got, sign.Signature(key, user, pass, ts, reqToken))

	// Sensitivity to every input.
	assert.NotEqual(t, got, sign.Signature("other", user, pass, ts, reqToken))
	assert.NotEqual(t, got, sign.Signature(key, "bob", pass, ts, reqToken))
	assert.NotEqual(t, got, sign.Signature(key, user, "wrong", ts, reqToken))
	assert.NotEqual(t, got, sign.Signature(key, user, pass, "1440000000001", reqToken))
	assert.NotEqual(t, got, sign.Signature(key, user, pass, ts, "ffff"))

	// Field order matters: swapping two fields changes the digest.
	assert.NotEqual(t, got, sign.Signature(key, pass, user, ts, reqToken))
}

func TestClientAuthHeader(t *testing.T) {
	got := sign.ClientAuthHeader("alice", "hunter2", "1440000000000")
	assert.Len(t, got, 64) // full hex HMAC-SHA256, no truncation
	assert.Equal(t, got, sign.ClientAuthHeader("alice", "hunter2", "1440000000000"))
	assert.NotEqual(t, got, sign.ClientAuthHeader("alice", "hunter2", "1440000000001"))

	// Independent of the request-signature path.
	assert.NotEqual(t, got[:20], sign.Signature("alice", "alice", "hunter2", "1440000000000", ""))
}
