package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// maxBodyBytes bounds how much of a response body we read.
const maxBodyBytes = 16 << 20

type Options struct {
	BaseURL string
	// Jar carries the session cookie across requests (and across runs when persistent).
	Jar http.CookieJar
	// Timeout applies per request. Zero means no timeout.
	Timeout time.Duration
	// Transport overrides the default round tripper (tests).
	Transport http.RoundTripper
	// Now is used for the cache-busting query parameter.
	Now func() time.Time
}

// Client talks to the portfolio REST API. It is safe for concurrent use.
type Client struct {
	base *url.URL
	hc   *http.Client
	now  func() time.Time

	gets singleflight.Group
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("missing api base url")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", raw)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		base: base,
		hc: &http.Client{
			Jar:       opts.Jar,
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		now: now,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, in any) (*http.Response, []byte, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, q, body, contentType)
	if err != nil {
		return nil, nil, err
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp, nil, fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	return resp, b, nil
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// statusError converts a non-2xx response into an APIError, lifting {message} when present.
func statusError(resp *http.Response, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)
	return &APIError{Status: resp.StatusCode, Message: env.Message}
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// decodeEnvelope validates {success, data?, message?} and returns data.
// requireData rejects a successful envelope without a data member.
func decodeEnvelope(resp *http.Response, body []byte, requireData bool) (json.RawMessage, error) {
	if !ok(resp) {
		return nil, statusError(resp, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed("envelope", err)
	}
	if env.Success == nil {
		return nil, malformed("missing success", nil)
	}
	if !*env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if requireData && (len(env.Data) == 0 || string(env.Data) == "null") {
		return nil, malformed("missing data", nil)
	}
	return env.Data, nil
}
