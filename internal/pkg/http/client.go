package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/piresc/payon/internal/pkg/circuitbreaker"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/logger"
	nrpkg "github.com/piresc/payon/internal/pkg/newrelic"
	"github.com/piresc/payon/internal/pkg/retry"
)

// DefaultTimeout for HTTP requests
const DefaultTimeout = 10 * time.Second

// HTTPError is a non 2xx response. Body holds the raw payload so callers can
// decode backend error details.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, nethttp.StatusText(e.StatusCode))
}

// IsServerError reports whether err is a 5xx response or a transport failure
func IsServerError(err error) bool {
	if err == nil {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

// Config holds client configuration
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Retry     retry.Config
	Breaker   circuitbreaker.Config
}

// Client calls the backend on behalf of the current user. Each request forwards
// the bearer token found in the context and runs behind a circuit breaker and a
// retrier; only 5xx and transport errors are retried or counted by the breaker.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *nethttp.Client
	retrier    *retry.Retrier
	breakers   *circuitbreaker.Manager
	breakerCfg circuitbreaker.Config
	logger     *logger.ZapLogger
}

// NewClient creates a new backend client
func NewClient(config Config, l *logger.ZapLogger) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	if config.Retry.RetryableFunc == nil {
		config.Retry.RetryableFunc = IsServerError
	}
	breakerCfg := config.Breaker
	breakerCfg.IsFailure = IsServerError
	if breakerCfg.FailureThreshold == 0 {
		breakerCfg = circuitbreaker.DefaultConfig("")
		breakerCfg.IsFailure = IsServerError
	}

	return &Client{
		baseURL:    config.BaseURL,
		userAgent:  config.UserAgent,
		httpClient: &nethttp.Client{Timeout: config.Timeout},
		retrier:    retry.New(config.Retry, l),
		breakers:   circuitbreaker.NewManager(l),
		breakerCfg: breakerCfg,
		logger:     l,
	}
}

// GetJSON performs a GET and decodes the JSON response into result
func (c *Client) GetJSON(ctx context.Context, operation, endpoint string, result interface{}) error {
	return c.Do(ctx, operation, nethttp.MethodGet, endpoint, nil, result)
}

// PostJSON performs a POST with a JSON body
func (c *Client) PostJSON(ctx context.Context, operation, endpoint string, body, result interface{}) error {
	return c.Do(ctx, operation, nethttp.MethodPost, endpoint, body, result)
}

// PatchJSON performs a PATCH with a JSON body
func (c *Client) PatchJSON(ctx context.Context, operation, endpoint string, body, result interface{}) error {
	return c.Do(ctx, operation, nethttp.MethodPatch, endpoint, body, result)
}

// Do sends one logical request. operation names the circuit breaker, so
// unrelated endpoints do not trip each other.
func (c *Client) Do(ctx context.Context, operation, method, endpoint string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var respBody []byte
	err := c.breakers.ExecuteWithConfig(ctx, operation, c.breakerCfg, func(ctx context.Context) error {
		return c.retrier.Execute(ctx, func(ctx context.Context) error {
			var err error
			respBody, err = c.send(ctx, method, endpoint, payload)
			if err != nil && !IsServerError(err) {
				return retry.Permanent(err)
			}
			return err
		})
	})
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	url := c.baseURL + endpoint

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := nethttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token := appctx.GetToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		c.logger.Warn("Backend request failed",
			logger.String("method", method),
			logger.String("url", url),
			logger.Err(err))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Backend request completed",
		logger.String("method", method),
		logger.String("url", url),
		logger.Int("status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: data}
	}
	return data, nil
}

// BreakerStats exposes per operation circuit breaker state for health reporting
func (c *Client) BreakerStats() map[string]circuitbreaker.Stats {
	return c.breakers.GetStats()
}
