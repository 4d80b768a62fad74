// Package httpclient is the authenticated transport for the Knawat MP REST API.
//
// A Client exchanges its consumer credentials for a session token once, in New,
// and then sends every call with that bearer token. Each call builds its own
// request and closes its own connection; a Client holds no per-call state and
// is safe for concurrent use.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Client performs authenticated HTTP calls against a fixed base URL.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	opts           Options
	http           *resty.Client
	log            Logger
	strictAuth     bool

	token    string
	hasToken bool
}

var _ Requester = (*Client)(nil)

// New stores the credentials, merges options over the defaults and performs the
// token exchange. A response without channel.token leaves the client without a
// token unless WithStrictAuth is set; transport failures are returned.
func New(ctx context.Context, baseURL, consumerKey, consumerSecret string, opts ...Option) (*Client, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		opts:           DefaultOptions(),
		log:            noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.opts = c.opts.normalize()
	if c.http == nil {
		c.http = newRestyBaseClient(c.opts)
	}

	token, ok, err := c.fetchToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	if !ok && c.strictAuth {
		return nil, ErrTokenUnavailable
	}
	c.token, c.hasToken = token, ok
	return c, nil
}

// AccessToken returns the session token and whether the exchange produced one.
func (c *Client) AccessToken() (string, bool) {
	if c == nil {
		return "", false
	}
	return c.token, c.hasToken
}

// Get performs an API GET request and returns the decoded JSON body.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return bodyOf(c.Do(ctx, http.MethodGet, path, nil))
}

// Post performs an API POST request and returns the decoded JSON body.
func (c *Client) Post(ctx context.Context, path string, data any) (any, error) {
	return bodyOf(c.Do(ctx, http.MethodPost, path, data))
}

// Put performs an API PUT request and returns the decoded JSON body.
func (c *Client) Put(ctx context.Context, path string, data any) (any, error) {
	return bodyOf(c.Do(ctx, http.MethodPut, path, data))
}

// Delete performs an API DELETE request and returns the decoded JSON body.
func (c *Client) Delete(ctx context.Context, path string, data any) (any, error) {
	return bodyOf(c.Do(ctx, http.MethodDelete, path, data))
}

// Do performs one request with any verb and returns the full diagnostic Result.
// The status code is not inspected; see Result.StatusError.
func (c *Client) Do(ctx context.Context, method, path string, data any) (*Result, error) {
	return c.execute(ctx, method, path, data, false)
}

func bodyOf(res *Result, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

func (c *Client) execute(ctx context.Context, method, path string, data any, tokenRequest bool) (*Result, error) {
	if c == nil || c.http == nil {
		return nil, ErrTransportUnavailable
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	if method != http.MethodGet {
		var err error
		if payload, err = encodeBody(data); err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
	}

	target := c.url(path)
	req := c.http.R().
		SetContext(ctx).
		EnableTrace().
		SetHeaders(c.headers(tokenRequest))
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	raw := resp.Body()
	decoded := decodeJSON(raw)
	text, err := json.Marshal(decoded)
	if err != nil {
		text = []byte("null")
	}

	res := &Result{
		Body:         decoded,
		EffectiveURL: effectiveURL(resp, target),
		RequestBody:  payload,
		ResponseText: string(text),
		Transport:    transportInfo(resp),
		raw:          raw,
	}
	c.log.DebugObj("knawat request completed", "knawat_request", map[string]any{
		"method":     method,
		"url":        res.EffectiveURL,
		"status":     res.Transport.StatusCode,
		"elapsed_ms": res.Transport.TotalTime.Milliseconds(),
	})
	return res, nil
}

// url joins the base URL and the path with only the outer slashes of path trimmed.
func (c *Client) url(path string) string {
	return c.baseURL + strings.Trim(path, "/")
}

func (c *Client) headers(tokenRequest bool) map[string]string {
	h := map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   c.opts.UserAgent,
	}
	if !tokenRequest {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

// encodeBody JSON-encodes maps, slices, arrays and structs. Nil and scalar values
// produce no body; json.RawMessage is sent as is.
func encodeBody(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return v, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(data))
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return json.Marshal(data)
	default:
		return nil, nil
	}
}

// decodeJSON keeps numbers as json.Number so integers survive re-encoding exactly.
// Bodies that are not a single JSON document decode to nil.
func decodeJSON(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil
	}
	return v
}

func validateBaseURL(baseURL string) error {
	if strings.TrimSpace(baseURL) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBaseURL)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute http(s) url", ErrInvalidBaseURL, baseURL)
	}
	return nil
}
