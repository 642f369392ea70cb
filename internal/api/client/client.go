// Package client provides a thin HTTP client for the tourism marketplace API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/trip-market/internal/metrics"
	"github.com/donaldgifford/trip-market/pkg/logger"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

// Client is a thin HTTP client for the tourism marketplace API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	limiter    *RateLimiter
	log        *slog.Logger
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRateLimiter throttles outgoing requests.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = rl
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = logger.Component(l, "api-client")
	}
}

// BaseURL returns the server URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request and decodes the JSON response into dst.
func (c *Client) get(ctx context.Context, endpoint, path string, dst any) error {
	return c.do(ctx, http.MethodGet, endpoint, path, nil, dst)
}

// post performs a POST request with a JSON body and decodes the response into dst.
func (c *Client) post(ctx context.Context, endpoint, path string, body, dst any) error {
	return c.do(ctx, http.MethodPost, endpoint, path, body, dst)
}

// patch performs a PATCH request with a JSON body and decodes the response into dst.
func (c *Client) patch(ctx context.Context, endpoint, path string, body, dst any) error {
	return c.do(ctx, http.MethodPatch, endpoint, path, body, dst)
}

// do sends one request. endpoint is a low-cardinality label for metrics.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(method, endpoint, "error", start)
		if isConnectionRefused(err) {
			return fmt.Errorf("API server not running at %s", c.baseURL)
		}
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	observe(method, endpoint, strconv.Itoa(resp.StatusCode), start)
	c.log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	if dst != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func observe(method, endpoint, status string, start time.Time) {
	metrics.APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	metrics.APIRequestDuration.WithLabelValues(method, endpoint, status).
		Observe(time.Since(start).Seconds())
}

// errorMessage picks a readable message out of an error body. It understands
// {"message"}, {"error"} and huma's {"detail"} shapes, falling back to the
// raw body and then the status text.
func errorMessage(status int, body []byte) string {
	var shaped struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &shaped) == nil {
		for _, m := range []string{shaped.Message, shaped.Error, shaped.Detail} {
			if m != "" {
				return m
			}
		}
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		return raw
	}
	return http.StatusText(status)
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}
