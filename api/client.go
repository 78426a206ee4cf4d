package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/azcart/storefront-client/session"
)

const defaultTimeout = 15 * time.Second

// Client talks to the storefront backend over its fixed HTTP contract.
// All calls go through the auth transport, so credential attachment, token
// rotation and session eviction happen uniformly regardless of which screen
// triggered the request.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     zerolog.Logger
}

// Option modifies the Client during construction.
type Option func(*Client, *authTransport)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// still wrapped by the auth transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client, _ *authTransport) {
		c.http = hc
	}
}

// WithOnEvict registers the effect to run after the transport clears an
// expired session. The embedding app maps it to "navigate to login".
func WithOnEvict(fn func()) Option {
	return func(_ *Client, t *authTransport) {
		t.onEvict = fn
	}
}

// WithLogger sets the logger used by the client and its transport.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client, t *authTransport) {
		c.log = log
		t.log = log
	}
}

// New creates a Client rooted at baseURL, reading credentials from store.
func New(baseURL string, store *session.Store, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[api.New] session store is required")
	}

	transport := &authTransport{store: store, log: zerolog.Nop()}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		log:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(client, transport)
	}

	transport.base = client.http.Transport
	if transport.base == nil {
		transport.base = http.DefaultTransport
	}

	// Wrap a copy so a shared http.Client is not mutated behind the
	// caller's back.
	wrapped := *client.http
	wrapped.Transport = transport
	client.http = &wrapped

	return client, nil
}

// Session exposes the store the client reads credentials from.
func (c *Client) Session() *session.Store {
	return c.store
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues a request and returns the raw response body. A non-2xx status
// comes back as a *StatusError carrying the backend's message; a transport
// failure comes back wrapped around ErrServerUnreachable unless the caller's
// context was cancelled first.
func (c *Client) do(ctx context.Context, method, path string, body any, contentType string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		if contentType == contentTypeText {
			s, ok := body.(string)
			if !ok {
				return nil, errors.Errorf("[Client.do] text payload must be a string, got %T", body)
			}
			reader = strings.NewReader(s)
		} else {
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, errors.Wrapf(err, "[Client.do] marshal %s %s", method, path)
			}
			reader = bytes.NewReader(encoded)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] build %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return nil, errors.Wrapf(ErrServerUnreachable, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] read %s %s", method, path)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		if resp.StatusCode == http.StatusUnauthorized && !IsPublicEndpoint(path) {
			// The transport has already cleared the session by now.
			return nil, stderrors.Join(ErrSessionEvicted, statusErr)
		}
		return nil, statusErr
	}
	return data, nil
}

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain"
)

// getJSON runs a GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "[Client.getJSON] decode %s", path)
	}
	return nil
}
