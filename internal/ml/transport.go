package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

// transport issues JSON requests with optional rate limiting and retries.
// The caller's context bounds the whole exchange, retries included.
type transport struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

type transportConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second, 0 disables
	HTTPClient   *http.Client
}

func newTransport(cfg transportConfig) *transport {
	retryClient := retryablehttp.NewClient()
	if cfg.HTTPClient != nil {
		// Copy so the timeout below does not leak into a shared client.
		hc := *cfg.HTTPClient
		retryClient.HTTPClient = &hc
	}
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	// Request logging is done per state transition by RetrievalLogger.
	retryClient.Logger = nil

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &transport{client: retryClient, limiter: limiter}
}

// retryPolicy retries network errors, 429 and 5xx, and never outlives the context.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

func (t *transport) getJSON(ctx context.Context, url, requestID string, out interface{}) error {
	return t.do(ctx, http.MethodGet, url, requestID, nil, out)
}

func (t *transport) postJSON(ctx context.Context, url, requestID string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return t.do(ctx, http.MethodPost, url, requestID, body, out)
}

func (t *transport) do(ctx context.Context, method, url, requestID string, body []byte, out interface{}) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", ErrServiceUnavailable, err)
		}
	}

	var reqBody interface{}
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrServiceUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

func (t *transport) close() {
	t.client.HTTPClient.CloseIdleConnections()
}
