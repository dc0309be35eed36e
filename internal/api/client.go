// Package api talks to the banking backend. Every endpoint takes a JSON POST
// and answers with the {success, message, data} envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader      = "X-Request-ID"
	idempotencyKeyHeader = "Idempotency-Key"
	maxResponseBytes     = 1 << 20

	defaultTimeout             = 15 * time.Second
	defaultDialerTimeout       = 5 * time.Second
	defaultTLSHandshakeTimeout = 5 * time.Second
	defaultIdleConnTimeout     = 90 * time.Second
	defaultMaxIdleConnsPerHost = 4
)

// Endpoint names a backend script relative to the base URL. Mutating
// endpoints carry an Idempotency-Key so a replayed submit is not applied twice.
type Endpoint struct {
	Path     string
	Mutation bool
}

// Backend endpoints.
var (
	DashboardData  = Endpoint{Path: "get_dashboard_data.php"}
	Fingerprint    = Endpoint{Path: "enable_fingerprint.php", Mutation: true}
	Signup         = Endpoint{Path: "signup.php", Mutation: true}
	Login          = Endpoint{Path: "login.php"}
	ForgotPassword = Endpoint{Path: "forgot_password.php", Mutation: true}
)

// Envelope is the wrapper used by every backend response.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client issues envelope requests against one backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
	newID   func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout caps the total time of each request on the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithIDGenerator overrides request id and idempotency key generation.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    newHTTPClient(),
		logger:  slog.Default(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do posts payload to the endpoint and decodes the envelope. On success the
// envelope's data is decoded into data when data is non-nil.
func (c *Client) Do(ctx context.Context, ep Endpoint, payload, data any) (Envelope, error) {
	target := c.baseURL.ResolveReference(&url.URL{Path: ep.Path}).String()

	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s request: %w", ep.Path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Envelope{}, fmt.Errorf("build %s request: %w", ep.Path, err)
	}
	reqID := c.newID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if ep.Mutation {
		req.Header.Set(idempotencyKeyHeader, c.newID())
	}

	log := c.logger.With(slog.String("endpoint", ep.Path), slog.String("request_id", reqID))
	log.Debug("backend request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("backend unreachable", slog.Any("error", err))
		return Envelope{}, &TransportError{Endpoint: ep.Path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("read backend response", slog.Any("error", err))
		return Envelope{}, &TransportError{Endpoint: ep.Path, Err: err}
	}
	log.Debug("backend response", slog.Int("status", resp.StatusCode), slog.Int("bytes", len(raw)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("backend returned error status", slog.Int("status", resp.StatusCode))
		return Envelope{}, &StatusError{Endpoint: ep.Path, Code: resp.StatusCode, Body: string(raw)}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn("backend returned invalid json", slog.Any("error", err))
		return Envelope{}, &DecodeError{Endpoint: ep.Path, Body: string(raw), Err: err}
	}
	if !env.Success {
		log.Info("backend rejected request", slog.String("message", env.Message))
		return env, &RejectedError{Endpoint: ep.Path, Message: env.Message}
	}

	if data != nil && HasData(env.Data) {
		if err := json.Unmarshal(env.Data, data); err != nil {
			log.Warn("backend returned invalid data", slog.Any("error", err))
			return env, &DecodeError{Endpoint: ep.Path, Body: string(raw), Err: err}
		}
	}
	return env, nil
}

// HasData reports whether an envelope carries a data document. null and the
// empty array or object PHP's json_encode emits for an empty result count as
// absent.
func HasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}
	if len(trimmed) >= 2 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) > 0
	}
	return true
}

func newHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialerTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{Transport: tr, Timeout: defaultTimeout}
}
