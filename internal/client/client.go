// Package client posts request envelopes to the classifier endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/bfhl/internal/model"
)

// DefaultEndpoint is the hosted classifier.
const DefaultEndpoint = "https://bajaj-backend-mu-one.vercel.app/bfhl"

// TransportErrorMessage is shown to the user for any failed submission.
const TransportErrorMessage = "Error submitting data"

const maxResponseBytes = 1 << 20

var (
	// ErrTransport covers network failures, non-2xx statuses and unreadable bodies.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse is returned when the body lacks one of the expected fields.
	ErrMalformedResponse = errors.New("malformed response")
)

// Client sends request envelopes to a fixed endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client for endpoint, which must be an absolute http(s) URL.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: expected an http(s) URL", endpoint)
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts env and decodes the reply. Every failure wraps ErrTransport.
func (c *Client) Submit(ctx context.Context, env model.RequestEnvelope) (*model.ResponseEnvelope, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %w", ErrTransport, err)
	}
	requestID := c.newID()
	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", c.endpoint))
	log.Debug("submitting payload", zap.ByteString("payload", body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		log.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: unexpected status: %s", ErrTransport, resp.Status)
	}

	decoded, err := DecodeResponse(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("alphabets", len(decoded.Alphabets)),
		zap.Int("numbers", len(decoded.Numbers)))
	return decoded, nil
}

// DecodeResponse reads a response envelope, requiring each of the three
// fields to be present and to be an array of strings.
func DecodeResponse(r io.Reader) (*model.ResponseEnvelope, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: body is not an object", ErrMalformedResponse)
	}
	var out model.ResponseEnvelope
	targets := map[model.Category]*[]string{
		model.CategoryAlphabets:       &out.Alphabets,
		model.CategoryNumbers:         &out.Numbers,
		model.CategoryHighestAlphabet: &out.HighestAlphabet,
	}
	for _, c := range model.Categories() {
		raw, ok := fields[c.Key()]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, c.Key())
		}
		values := []string{}
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrMalformedResponse, c.Key(), err)
		}
		*targets[c] = values
	}
	return &out, nil
}
