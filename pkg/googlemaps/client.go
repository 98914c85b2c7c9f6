// Package googlemaps is a client for the Google Maps Platform endpoints the
// engine consumes: Places Nearby Search and Directions with live traffic.
// A client without an API key performs no network I/O; every call returns
// ErrNoAPIKey so callers can treat the provider as disabled.
package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrNoAPIKey is returned when the client has no credential configured.
var ErrNoAPIKey = errors.New("google maps API key not configured")

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles Google Maps API operations. Safe for concurrent use.
type Client struct {
	apiKey      string
	httpClient  HTTPClient
	logger      *slog.Logger
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	callTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCallTimeout overrides the per-call timeout (default 5s).
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) { c.callTimeout = d }
}

// WithRateLimit overrides outbound request pacing (default 10 req/s, burst 20).
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewClient creates a new Google Maps API client.
func NewClient(apiKey string, httpClient HTTPClient, logger *slog.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		apiKey:      apiKey,
		httpClient:  httpClient,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(10), 20),
		callTimeout: 5 * time.Second,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "googlemaps",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether a credential is configured.
func (c *Client) Available() bool { return c.apiKey != "" }

// getJSON fetches apiURL and unmarshals the body into dest. The call is
// paced by the rate limiter, guarded by the circuit breaker, and retried
// with backoff and jitter on network errors and 5xx/429 responses.
func (c *Client) getJSON(ctx context.Context, apiURL string, dest any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.retryableGetJSON(ctx, apiURL, dest)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn("provider circuit open, call skipped")
		return fmt.Errorf("provider unavailable: %w", err)
	}
	return err
}

func (c *Client) retryableGetJSON(ctx context.Context, apiURL string, dest any) error {
	var body []byte
	var lastErr error

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				lastErr = err
				return err
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					c.logger.Debug("failed to close response body", "error", closeErr)
				}
			}()

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				lastErr = err
				return err
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
				return lastErr
			}
			if resp.StatusCode != http.StatusOK {
				// Client errors are not retryable.
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
				return retry.Unrecoverable(lastErr)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying provider call", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parsing provider response: %w", err)
	}
	return nil
}
