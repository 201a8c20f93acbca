// pkg/httpclient/client.go

package httpclient

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client is an HTTP client with retry, rate limiting, authentication and
// TLS handling layered on top of net/http. Construct one with NewClient
// and share it; all methods are safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a Client from the given configuration. A nil config
// gets DefaultConfig. The zero Timeout is replaced with the default so
// callers can construct partial configs.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if config.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout: %v", config.Timeout)
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	transport, err := buildTransport(config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}

	if config.RateLimitConfig != nil {
		client.limiter = rate.NewLimiter(
			rate.Limit(config.RateLimitConfig.RequestsPerSecond),
			config.RateLimitConfig.BurstSize,
		)
	}

	return client, nil
}

// buildTransport assembles the http.Transport from the pool and TLS
// sections of the config.
func buildTransport(config *Config) (*http.Transport, error) {
	transport := &http.Transport{}

	if config.PoolConfig != nil {
		pool := config.PoolConfig
		transport.MaxIdleConns = pool.MaxIdleConns
		transport.MaxIdleConnsPerHost = pool.MaxIdleConnsPerHost
		transport.MaxConnsPerHost = pool.MaxConnsPerHost
		transport.IdleConnTimeout = pool.IdleConnTimeout
		transport.DialContext = (&net.Dialer{
			Timeout:   pool.DialTimeout,
			KeepAlive: pool.KeepAlive,
		}).DialContext
	}

	if config.TLSConfig != nil {
		tlsConfig, err := buildTLSConfig(config.TLSConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to build TLS config: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
	}

	return transport, nil
}

// Get issues a GET request to the given URL.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.Do(req)
}

// Post issues a POST request with the given content type and body.
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// Do executes the request with the client's auth, headers, rate limit and
// retry policy applied. Responses with non-retryable status codes are
// returned as-is; transport errors are returned without retrying since
// the request may have been received.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.applyHeaders(req)
	c.applyAuth(req)

	ctx := req.Context()
	logger := otelzap.Ctx(ctx)

	maxAttempts := 1
	if c.config.RetryConfig != nil && c.config.RetryConfig.MaxRetries > 0 {
		maxAttempts = c.config.RetryConfig.MaxRetries
	}

	// A request body can only be replayed when GetBody is available.
	if req.Body != nil && req.GetBody == nil {
		maxAttempts = 1
	}

	var resp *http.Response
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}

		if attempt > 1 {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
			}
			req.Body = body
		}

		if c.config.LogConfig != nil && c.config.LogConfig.LogRequests {
			logger.Debug("HTTP request",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt))
		}

		start := time.Now()
		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if c.config.LogConfig != nil && c.config.LogConfig.LogResponses {
			logger.Debug("HTTP response",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", time.Since(start)))
		}

		if attempt == maxAttempts || !c.isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		// Drain so the connection can be reused, then back off.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		delay := c.backoffDelay(attempt)
		logger.Debug("Retrying request after backoff",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return resp, nil
}

// applyHeaders sets the user agent and any configured custom headers.
// Header values are stripped of CR/LF so a hostile config value cannot
// smuggle extra headers or cause the transport to reject the request.
func (c *Client) applyHeaders(req *http.Request) {
	if c.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	for name, value := range c.config.Headers {
		req.Header.Set(sanitizeHeaderValue(name), sanitizeHeaderValue(value))
	}
}

func (c *Client) applyAuth(req *http.Request) {
	auth := c.config.AuthConfig
	if auth == nil {
		return
	}

	switch auth.Type {
	case AuthTypeBearer:
		header := auth.TokenHeader
		if header == "" {
			header = "Authorization"
		}
		prefix := auth.TokenPrefix
		if prefix == "" {
			prefix = "Bearer"
		}
		req.Header.Set(header, prefix+" "+auth.Token)
	case AuthTypeBasic:
		req.SetBasicAuth(auth.Username, auth.Password)
	case AuthTypeCustom:
		for name, value := range auth.CustomHeaders {
			req.Header.Set(sanitizeHeaderValue(name), sanitizeHeaderValue(value))
		}
	}
}

func (c *Client) isRetryableStatus(status int) bool {
	if c.config.RetryConfig == nil {
		return false
	}
	for _, s := range c.config.RetryConfig.RetryableStatus {
		if s == status {
			return true
		}
	}
	return false
}

// backoffDelay computes the exponential delay before the next attempt,
// capped at MaxDelay, with optional jitter of up to 25%.
func (c *Client) backoffDelay(attempt int) time.Duration {
	retry := c.config.RetryConfig

	delay := float64(retry.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= retry.Multiplier
	}
	if retry.MaxDelay > 0 && delay > float64(retry.MaxDelay) {
		delay = float64(retry.MaxDelay)
	}
	if retry.Jitter {
		delay += delay * 0.25 * (rand.Float64()*2 - 1)
	}

	return time.Duration(delay)
}

var headerSanitizer = strings.NewReplacer("\r", "", "\n", "")

func sanitizeHeaderValue(v string) string {
	return headerSanitizer.Replace(v)
}
