package gauth

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/domain"
)

// DefaultURL is the provider's token endpoint.
const DefaultURL = "https://android.clients.google.com/auth"

// Published android login key: 4-byte modulus length, modulus, 4-byte
// exponent length, exponent.
const androidKeyB64 = "AAAAgMom/1a/v0lblO2Ubrt60J2gcuXSljGFQXgcyZWveWLEwo6prwgi3iJIZdody" +
	"hKZQrNWp5nKJ3srRXcUW+F1BD3baEVGcmEgqaLZUNBjm057pKRI16kB0YppeGx5qIQ5QjKzsR8ETQbK" +
	"LNWgRY0QRNVz34kMJR3P/LgHax/6rmf5AAAAAwEAAQ=="

const (
	snapchatApp       = "com.snapchat.android"
	snapchatClientSig = "49f6badb81d89a9e38d65de76f09355071bd67e7"
	snapchatAudience  = "audience:server:client_id:694893979329-l59f3phl42et9clpoo296d8raqoljl6p.apps.googleusercontent.com"
)

// Token is a secondary-provider access token. Expiry is exclusive: the token
// must not be used once now >= Expiry.
type Token struct {
	Value  string
	Expiry time.Time
}

// Client talks to the identity provider. The zero URL and HTTP client fall
// back to DefaultURL and http.DefaultClient.
type Client struct {
	URL       string
	HTTP      *http.Client
	Log       logrus.FieldLogger
	AndroidID string
}

// NewClient constructs a provider client.
func NewClient(rawurl string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if rawurl == "" {
		rawurl = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{URL: rawurl, HTTP: httpClient, Log: log, AndroidID: "378c184c6070c26c"}
}

// Authenticate runs the device-auth flow: master token from the encrypted
// credentials, then the access-token exchange scoped to the Snapchat client.
// Every failure mode (provider Error= line, non-2xx, network) is a
// domain.AuthError; nothing is retried.
func (c *Client) Authenticate(ctx context.Context, email, password string) (Token, error) {
	encrypted, err := encryptCredentials(email, password)
	if err != nil {
		return Token{}, &domain.AuthError{Email: email, Err: err}
	}

	master, err := c.post(ctx, url.Values{
		"accountType":     {"HOSTED_OR_GOOGLE"},
		"Email":           {email},
		"has_permission":  {"1"},
		"add_account":     {"1"},
		"EncryptedPasswd": {encrypted},
		"service":         {"ac2dm"},
		"source":          {"android"},
		"androidId":       {c.AndroidID},
		"device_country":  {"us"},
		"operatorCountry": {"us"},
		"lang":            {"en"},
		"sdk_version":     {"19"},
	})
	if err != nil {
		return Token{}, &domain.AuthError{Email: email, Err: err}
	}
	masterToken := master["Token"]
	if masterToken == "" {
		return Token{}, &domain.AuthError{Email: email, Err: errors.New("no master token in response")}
	}

	access, err := c.post(ctx, url.Values{
		"accountType":     {"HOSTED_OR_GOOGLE"},
		"Email":           {email},
		"has_permission":  {"1"},
		"EncryptedPasswd": {masterToken},
		"service":         {snapchatAudience},
		"source":          {"android"},
		"androidId":       {c.AndroidID},
		"app":             {snapchatApp},
		"client_sig":      {snapchatClientSig},
		"device_country":  {"us"},
		"operatorCountry": {"us"},
		"lang":            {"en"},
		"sdk_version":     {"19"},
	})
	if err != nil {
		return Token{}, &domain.AuthError{Email: email, Err: err}
	}
	if access["Auth"] == "" {
		return Token{}, &domain.AuthError{Email: email, Err: errors.New("no access token in response")}
	}

	tok := Token{Value: access["Auth"]}
	if exp, err := strconv.ParseInt(access["Expiry"], 10, 64); err == nil {
		tok.Expiry = time.Unix(exp, 0)
	}
	c.Log.WithField("email", email).Debug("gauth: access token obtained")
	return tok, nil
}

// post sends a form-encoded request and parses the key=value response lines.
// A response carrying an Error= line is a failure even on HTTP 200.
func (c *Client) post(ctx context.Context, form url.Values) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "provider request")
	}
	defer resp.Body.Close()

	fields := make(map[string]string)
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if k, v, ok := strings.Cut(line, "="); ok {
			fields[k] = v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading provider response")
	}
	if msg := fields["Error"]; msg != "" {
		return nil, errors.Errorf("provider rejected request: %s", msg)
	}
	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("provider status %s", resp.Status)
	}
	return fields, nil
}

// encryptCredentials produces the EncryptedPasswd value: RSA-OAEP(SHA-1) of
// "email\x00password" under the published key, prefixed with a zero byte and
// the first four bytes of the key's SHA-1, url-safe base64 encoded.
func encryptCredentials(email, password string) (string, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(androidKeyB64)
	if err != nil {
		return "", err
	}
	pub, err := parseAndroidKey(keyBytes)
	if err != nil {
		return "", err
	}

	keyHash := sha1.Sum(keyBytes)
	msg := []byte(email + "\x00" + password)
	ct, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, msg, nil)
	if err != nil {
		return "", err
	}

	sig := make([]byte, 0, 5+len(ct))
	sig = append(sig, 0x00)
	sig = append(sig, keyHash[:4]...)
	sig = append(sig, ct...)
	return base64.URLEncoding.EncodeToString(sig), nil
}

func parseAndroidKey(b []byte) (*rsa.PublicKey, error) {
	if len(b) < 4 {
		return nil, errors.New("provider key too short")
	}
	modLen := int(binary.BigEndian.Uint32(b))
	if len(b) < 4+modLen+4 {
		return nil, errors.New("provider key truncated")
	}
	mod := new(big.Int).SetBytes(b[4 : 4+modLen])
	expLen := int(binary.BigEndian.Uint32(b[4+modLen:]))
	if len(b) < 8+modLen+expLen {
		return nil, errors.New("provider key truncated")
	}
	exp := new(big.Int).SetBytes(b[8+modLen : 8+modLen+expLen])
	return &rsa.PublicKey{N: mod, E: int(exp.Int64())}, nil
}
