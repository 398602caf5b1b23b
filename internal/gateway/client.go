// Package gateway exchanges character records with the remote character
// endpoint over HTTP: GET loads, POST saves. It never retries; callers decide.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/character"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// loadEnvelope is the GET response shape: {"body": {"attributes":..., "skillPoints":...}}.
type loadEnvelope struct {
	Body *character.Record `json:"body"`
}

// Client talks to a single character endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a Client for cfg.Endpoint. The transport is instrumented with
// OpenTelemetry; cfg.Timeout of zero leaves the round trip unbounded apart
// from the caller's context.
//
// Precondition: cfg must have passed config validation; logger must be non-nil.
// Postcondition: Returns a ready Client.
func New(cfg config.GatewayConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.Named("gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Load fetches the stored record. Completeness against the catalog is not
// checked here; see character.FromRecord.
//
// Postcondition: Returns the decoded record, or a *TransportError.
func (c *Client) Load(ctx context.Context) (character.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return character.Record{}, &TransportError{Op: "load", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, "load")
	if err != nil {
		return character.Record{}, err
	}
	defer resp.Body.Close()

	var env loadEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return character.Record{}, c.fail(req, &TransportError{Op: "load", Cause: fmt.Errorf("%w: %v", ErrMalformedResponse, err)})
	}
	if env.Body == nil {
		return character.Record{}, c.fail(req, &TransportError{Op: "load", Cause: fmt.Errorf("%w: missing body", ErrMalformedResponse)})
	}
	return *env.Body, nil
}

// Save posts rec as {"attributes":..., "skillPoints":...}. The response body is
// drained but not parsed.
//
// Postcondition: Returns nil on any 2xx reply, or a *TransportError.
func (c *Client) Save(ctx context.Context, rec character.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return &TransportError{Op: "save", Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: "save", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "save")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// do sends req and classifies the outcome. On success the caller owns resp.Body.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(req, &TransportError{Op: op, Cause: err})
	}
	c.logger.Debug("character endpoint replied",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, c.fail(req, &TransportError{Op: op, Status: resp.StatusCode})
	}
	return resp, nil
}

func (c *Client) fail(req *http.Request, err *TransportError) error {
	c.logger.Warn("character endpoint request failed",
		zap.String("op", err.Op),
		zap.String("method", req.Method),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
		zap.Int("status", err.Status),
		zap.Error(err),
	)
	return err
}
