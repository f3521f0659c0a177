// Package upstream provides the rate-limited, retrying HTTP transport shared by
// the market, inference and settlement providers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/metrics"
	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// ClientConfig holds configuration for HTTP clients
type ClientConfig struct {
	Provider          string
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // max consecutive failures before circuit break
	CooldownPeriod    time.Duration
}

// DefaultClientConfig returns recommended defaults
func DefaultClientConfig(provider, baseURL string) ClientConfig {
	return ClientConfig{
		Provider:          provider,
		BaseURL:           baseURL,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         10.0,
		CircuitBreakerMax: 5,
		CooldownPeriod:    30 * time.Second,
	}
}

// FromConfig converts a provider section of the app config
func FromConfig(provider string, cfg config.UpstreamConfig) ClientConfig {
	c := DefaultClientConfig(provider, cfg.BaseURL)
	c.APIKey = cfg.APIKey
	c.Timeout = cfg.Timeout()
	c.MaxRetries = cfg.MaxRetries
	c.RetryWaitMin = time.Duration(cfg.RetryWaitMinMillis) * time.Millisecond
	c.RetryWaitMax = time.Duration(cfg.RetryWaitMaxMillis) * time.Millisecond
	c.RateLimit = cfg.RateLimitPerSecond
	c.CircuitBreakerMax = cfg.CircuitBreakerMax
	return c
}

// Client wraps retryablehttp.Client with rate limiting and a circuit breaker.
// Retries happen here and nowhere above it.
type Client struct {
	provider string
	baseURL  string
	apiKey   string
	client   *retryablehttp.Client
	limiter  *rate.Limiter
	logger   *logrus.Entry

	mu                sync.Mutex
	circuitBreakerMax int
	cooldown          time.Duration
	consecutiveErrors int
	openedAt          time.Time
	isOpen            bool
	lastError         error
	now               func() time.Time
}

// NewClient creates a new rate-limited HTTP client
func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithFields(logrus.Fields{"component": "upstream", "provider": cfg.Provider})

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Hand the final response back instead of a generic "giving up" error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = leveledLogger{entry}

	rateLimit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		rateLimit = rate.Inf
	}

	return &Client{
		provider:          cfg.Provider,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:            cfg.APIKey,
		client:            retryClient,
		limiter:           rate.NewLimiter(rateLimit, 1),
		logger:            entry,
		circuitBreakerMax: cfg.CircuitBreakerMax,
		cooldown:          cfg.CooldownPeriod,
		now:               time.Now,
	}
}

// Provider returns the provider name used in logs and metrics
func (c *Client) Provider() string {
	return c.provider
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.allow(); err != nil {
		return nil, err
	}

	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(retryReq.WithContext(ctx))
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		c.recordFailure(fmt.Errorf("status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}
	return resp, nil
}

// allow rejects calls while the breaker is open. After the cooldown one call
// is let through; its outcome closes or reopens the breaker.
func (c *Client) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return nil
	}
	if c.cooldown > 0 && c.now().Sub(c.openedAt) >= c.cooldown {
		c.openedAt = c.now()
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrCircuitOpen, c.provider, c.lastError)
}

func (c *Client) recordFailure(err error) {
	metrics.RecordUpstreamFailure(c.provider)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveErrors++
	c.lastError = err
	if c.circuitBreakerMax > 0 && c.consecutiveErrors >= c.circuitBreakerMax && !c.isOpen {
		c.isOpen = true
		c.openedAt = c.now()
		metrics.RecordCircuitBreakerTrip()
		c.logger.WithFields(logrus.Fields{
			"consecutive_errors": c.consecutiveErrors,
		}).WithError(err).Warn("Circuit breaker opened")
	}
}

func (c *Client) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isOpen {
		c.logger.Info("Circuit breaker closed")
	}
	c.consecutiveErrors = 0
	c.isOpen = false
	c.lastError = nil
}

// IsOpen reports whether the breaker is currently open
func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// GetJSON issues GET {base}{path} and decodes a 2xx JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.doJSON(ctx, req, out)
}

// PostJSON issues POST {base}{path} with a JSON body and decodes the response into out
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", c.provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.doJSON(ctx, req, out)
}

func (c *Client) doJSON(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %s %s: %w", c.provider, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.provider, err)
	}
	return nil
}

// Close closes any resources held by the client
func (c *Client) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, nil
		}

		// Retry on rate limit (429) and server errors
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}

// leveledLogger routes retryablehttp logs through logrus at debug level
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}
