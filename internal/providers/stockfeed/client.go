package stockfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"stock-stats-api/internal/models"
	"stock-stats-api/internal/monitoring"
	"stock-stats-api/internal/providers"
)

const providerName = "stockfeed"

// Client is an HTTP client for the stock price feed
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	metrics     monitoring.MetricsService
	logger      *logrus.Logger
}

// Config represents stock feed client configuration
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RateLimit is the maximum number of requests per minute; zero disables limiting
	RateLimit int
}

// NewClient creates a new stock feed client
func NewClient(config *Config, metrics monitoring.MetricsService, logger *logrus.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RateLimit)), config.RateLimit)
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: limiter,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetName returns the provider name
func (c *Client) GetName() string {
	return providerName
}

// GetPriceHistory fetches the ticker's price history over the trailing window
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, minutes int) (models.PriceHistory, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, providers.NewFetchError(ticker, "rate limit wait cancelled", err)
	}

	endpoint := fmt.Sprintf("%s/stocks/%s?minutes=%d", c.baseURL, url.PathEscape(ticker), minutes)

	start := time.Now()
	body, err := c.makeRequest(ctx, endpoint)
	if err != nil {
		c.metrics.RecordUpstreamCall("error", time.Since(start))
		fetchErr := providers.NewFetchError(ticker, "upstream request failed", err)
		if statusErr, ok := err.(*statusError); ok {
			fetchErr.Message = fmt.Sprintf("upstream returned HTTP %d", statusErr.code)
			fetchErr.StatusCode = statusErr.code
		}
		return nil, fetchErr
	}
	c.metrics.RecordUpstreamCall("ok", time.Since(start))

	history, shape, err := decodeHistory(body)
	if err != nil {
		return nil, providers.NewFetchError(ticker, "invalid price history response", err)
	}

	c.logger.WithFields(logrus.Fields{
		"ticker":  ticker,
		"minutes": minutes,
		"shape":   shape.String(),
		"points":  len(history),
		"latency": time.Since(start),
	}).Debug("Fetched price history")

	return history, nil
}

// Ping checks if the feed is reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("feed unhealthy: HTTP %d", resp.StatusCode)
	}
	return nil
}

// statusError is returned by makeRequest for non-2xx responses
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d - %s", e.code, e.body)
}

// makeRequest makes an authenticated GET request and returns the body
func (c *Client) makeRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stock-stats-api/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
