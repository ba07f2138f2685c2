// Package client implements the REST client for the Gilded Spoon backend:
// menu browsing, cart management, checkout and payment, order history, and
// profile details. It reads the auth session for the bearer credential it
// attaches to every request; it never mutates session state itself.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gildedspoon/tableside"
)

const defaultTimeout = 15 * time.Second

// TokenSource exposes the current session snapshot. *tableside.Manager
// satisfies it.
type TokenSource interface {
	Session() tableside.Session
}

// Client talks to the restaurant backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  tableside.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger tableside.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Client for the given backend base URL. tokens may be nil
// for unauthenticated use; calls then rely on context credentials only.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// token resolves the bearer credential for a request: a context override
// wins, otherwise the session's credential is used.
func (c *Client) token(ctx context.Context) string {
	if tok, ok := tableside.TokenFromContext(ctx); ok {
		return tok
	}
	if c.tokens != nil {
		return c.tokens.Session().Token
	}
	return ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// doJSON issues a request with an optional JSON payload and decodes a JSON
// response into out when out is non-nil. A 401/403 maps onto
// ErrInvalidSession so callers can surface the generic re-authenticate
// prompt; other non-2xx statuses come back as plain errors.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func checkStatus(res *http.Response) error {
	switch {
	case res.StatusCode >= 200 && res.StatusCode <= 299:
		return nil
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", tableside.ErrInvalidSession, res.StatusCode)
	default:
		return fmt.Errorf("%s %s: unexpected status %d", res.Request.Method, res.Request.URL.Path, res.StatusCode)
	}
}
