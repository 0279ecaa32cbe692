// Package jsonrpc provides a JSON-RPC 2.0 client over HTTP for talking to chain-data
// providers. Requests go through a retryablehttp client and a shared rate limiter, and
// failures are classified so callers can tell throttling and outages apart from
// requests the provider rejected outright.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/ratelimit"
)

var (
	// ErrProviderReturnedError indicates that the remote JSON-RPC server returned an error response.
	ErrProviderReturnedError = errors.New("provider error")

	// ErrRateLimited indicates the provider throttled the request (HTTP 429 or a
	// limit-exceeded JSON-RPC error code).
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrUnavailable indicates the provider could not be reached or failed to answer:
	// network errors, timeouts and HTTP 5xx responses.
	ErrUnavailable = errors.New("provider unavailable")
)

// rateLimitCodes lists JSON-RPC error codes providers use to signal throttling.
var rateLimitCodes = []int{-32005, -32029, 429}

// RPCError is the error object of a JSON-RPC 2.0 response.
type RPCError struct {
	Code    int    `json:"code"`    // Error code defined by the JSON-RPC spec or custom server logic
	Message string `json:"message"` // Human-readable error message
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: [%d] - %s", ErrProviderReturnedError, e.Code, e.Message)
}

func (e *RPCError) Unwrap() error {
	return ErrProviderReturnedError
}

// response represents a standard JSON-RPC 2.0 response.
type response struct {
	JsonRPC string          `json:"jsonrpc"`
	Error   *RPCError       `json:"error"`
	Result  json.RawMessage `json:"result"`
}

// Err returns an error if the response includes a JSON-RPC error object.
// Throttling codes are additionally wrapped with ErrRateLimited.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	if slices.Contains(rateLimitCodes, r.Error.Code) {
		return fmt.Errorf("%w: %w", ErrRateLimited, r.Error)
	}

	return r.Error
}

// Client defines the interface for a generic JSON-RPC client.
type Client interface {
	// Fetch sends a JSON-RPC request with the given method name and parameters.
	// It returns the raw JSON result or an error if the request or response fails.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client is the default implementation of the Client interface.
type client struct {
	providerEndpoint string
	httpClient       *retryablehttp.Client
	limiter          ratelimit.Limiter
}

// Compile-time assertion that client implements the Client interface.
var _ Client = (*client)(nil)

// Fetch sends a JSON-RPC request to the remote server with the given method and parameters.
// Each call takes one token from the rate limiter before hitting the network.
// The `id` field in the request is generated as a UUID string.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	c.limiter.Take()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: http status %d", ErrRateLimited, res.StatusCode)
	case res.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: http status %d", ErrUnavailable, res.StatusCode)
	}

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	if err := data.Err(); err != nil {
		return nil, err
	}

	return data.Result, nil
}

// config holds internal settings for the JSON-RPC client.
type config struct {
	timeout      time.Duration // maximum duration for a single HTTP request
	retryWaitMin time.Duration // minimum delay between HTTP retry attempts
	retryWaitMax time.Duration // maximum delay between HTTP retry attempts
	retryMax     int           // maximum number of HTTP retry attempts
	rps          int           // requests per second allowed towards the provider, <= 0 means unlimited
}

// Option defines a functional option for configuring the JSON-RPC client.
type Option func(*config)

// NewClient constructs a Client that sends JSON-RPC requests to providerEndpoint.
//
// Defaults:
//
//   - timeout:      5 seconds
//   - retryWaitMin: 1 second
//   - retryWaitMax: 5 seconds
//   - retryMax:     2 retries
//   - rate limit:   unlimited
//
// Once HTTP retries are exhausted the last response is handed back instead of being
// discarded, so a final 429 is still reported as ErrRateLimited.
func NewClient(providerEndpoint string, opts ...Option) *client {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = cfg.timeout
	httpClient.RetryWaitMin = cfg.retryWaitMin
	httpClient.RetryWaitMax = cfg.retryWaitMax
	httpClient.RetryMax = cfg.retryMax
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limiter := ratelimit.NewUnlimited()
	if cfg.rps > 0 {
		limiter = ratelimit.New(cfg.rps)
	}

	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
		limiter:          limiter,
	}
}

// WithTimeout sets the maximum duration allowed for a single HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum delay between HTTP retry attempts.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum delay between HTTP retry attempts.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets the maximum number of HTTP retry attempts for failed requests.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithRateLimit bounds the request rate towards the provider. Every request made
// through the same client shares the budget.
func WithRateLimit(rps int) Option {
	return func(c *config) {
		c.rps = rps
	}
}
