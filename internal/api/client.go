package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// RequestTimeout is the client-enforced budget per call. There is no retry;
// a call either completes or fails within this window.
const RequestTimeout = 30 * time.Second

// Audience selects which side of the API the client talks to.
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudiencePartner  Audience = "partner"
)

func (a Audience) pathPrefix() string {
	if a == AudiencePartner {
		return "/partner"
	}
	return ""
}

// Client is the single HTTP boundary to the Minuteserv backend. The session
// rides in an HttpOnly cookie held by the jar; no token ever reaches caller
// code.
type Client struct {
	baseURL    string
	audience   Audience
	httpClient *http.Client
}

// NewClient builds a client for one audience. The cookie jar stands in for
// credentials: include on every call.
func NewClient(baseURL string, audience Audience) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		audience: audience,
		httpClient: &http.Client{
			Timeout: RequestTimeout,
			Jar:     jar,
		},
	}, nil
}

// NewClientWithHTTP is used by tests to point the client at an httptest
// server with a shared jar.
func NewClientWithHTTP(baseURL string, audience Audience, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		audience:   audience,
		httpClient: httpClient,
	}
}

// Audience returns which side of the API this client addresses.
func (c *Client) Audience() Audience {
	return c.audience
}

// path prefixes partner routes; pass absolute=true for paths shared by both
// audiences (none today, kept for the storefront's loyalty endpoint).
func (c *Client) path(p string) string {
	return c.baseURL + c.audience.pathPrefix() + p
}

// do performs one JSON request. On 2xx the body is unwrapped from its
// envelope and decoded into out (which may be nil). Non-2xx responses become
// *Error with the server's message surfaced verbatim when present.
func (c *Client) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: ErrorKindValidation, Message: err.Error()}
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Kind: ErrorKindNetwork, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeInto(raw, out)
}

// getList fetches a list endpoint and decodes it through the envelope
// normalization boundary.
func (c *Client) getList(ctx context.Context, url string, out interface{}, aliases ...string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Kind: ErrorKindNetwork, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(resp.StatusCode, raw)
	}

	list, err := unwrapList(raw, aliases...)
	if err != nil {
		return &Error{Kind: ErrorKindHTTP, Status: resp.StatusCode, Message: err.Error()}
	}
	if err := json.Unmarshal(list, out); err != nil {
		return &Error{Kind: ErrorKindHTTP, Status: resp.StatusCode, Message: err.Error()}
	}
	return nil
}

func decodeInto(raw []byte, out interface{}) error {
	obj, err := unwrapObject(raw)
	if err != nil {
		return &Error{Kind: ErrorKindHTTP, Message: err.Error()}
	}
	if err := json.Unmarshal(obj, out); err != nil {
		return &Error{Kind: ErrorKindHTTP, Message: err.Error()}
	}
	return nil
}

// httpError builds the error for a non-2xx response, preferring the server's
// own message field.
func httpError(status int, body []byte) *Error {
	var envelope struct {
		Message string `json:"message"`
		ErrMsg  string `json:"error"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			message = envelope.Message
		} else if envelope.ErrMsg != "" {
			message = envelope.ErrMsg
		}
	}
	return &Error{Kind: ErrorKindHTTP, Status: status, Message: message}
}

// bookingPath builds /partner/bookings/:id/... or /bookings/:id/...
func (c *Client) bookingPath(id uint, suffix string) string {
	return c.path(fmt.Sprintf("/bookings/%d%s", id, suffix))
}
