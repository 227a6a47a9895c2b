package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/domain"
)

// DefaultURL is the live API host.
const DefaultURL = "https://app.snapchat.com"

// Client performs requests against one API host.
type Client struct {
	base string
	http *http.Client
	log  logrus.FieldLogger
}

// NewClient builds a client for base. Nil arguments fall back to
// http.DefaultClient and the standard logger.
func NewClient(base string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if base == "" {
		base = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{base: strings.TrimRight(base, "/"), http: httpClient, log: log}
}

// AuthQuery builds the now/gauth query pair every authenticated request
// carries.
func AuthQuery(timestamp, gauthToken string) url.Values {
	return url.Values{
		"now":   {timestamp},
		"gauth": {gauthToken},
	}
}

// Opts describes one call.
type Opts struct {
	Method string // defaults to POST (the API is POST-only)
	Path   string
	Query  url.Values
	Form   url.Values
	Header http.Header
	Bearer string // attached as Authorization: Bearer when non-empty

	// Multipart upload. When File is non-nil the Form values are written as
	// multipart fields and File as the "data" part.
	File     []byte
	FileName string
}

// Call performs the request and returns the raw body. Non-2xx statuses and
// connection failures come back as *domain.TransportError.
func (c *Client) Call(ctx context.Context, opts Opts) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	contentType := ""
	if opts.File != nil {
		buf := new(bytes.Buffer)
		w := multipart.NewWriter(buf)
		for k, vs := range opts.Form {
			for _, v := range vs {
				if err := w.WriteField(k, v); err != nil {
					return nil, errors.Wrap(err, "multipart field")
				}
			}
		}
		part, err := w.CreateFormFile("data", opts.FileName)
		if err != nil {
			return nil, errors.Wrap(err, "multipart file")
		}
		if _, err := part.Write(opts.File); err != nil {
			return nil, errors.Wrap(err, "multipart file")
		}
		if err := w.Close(); err != nil {
			return nil, errors.Wrap(err, "multipart close")
		}
		body = buf
		contentType = w.FormDataContentType()
	} else if opts.Form != nil {
		body = strings.NewReader(opts.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	u := c.base + opts.Path
	if len(opts.Query) > 0 {
		u += "?" + opts.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	if opts.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Method: method, Path: opts.Path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Method: method, Path: opts.Path, Err: err}
	}
	c.log.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"bytes":  len(raw),
	}).Debugf("%s %s", method, opts.Path)

	if resp.StatusCode/100 != 2 {
		return nil, &domain.TransportError{
			Method:     method,
			Path:       opts.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	return raw, nil
}

// CallJSON performs the request and decodes the JSON body into out.
func (c *Client) CallJSON(ctx context.Context, opts Opts, out any) error {
	raw, err := c.Call(ctx, opts)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s response", opts.Path)
	}
	return nil
}
