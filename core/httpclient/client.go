package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/helicon-ai/relay/core/ratelimit"
	"github.com/helicon-ai/relay/internal/utils"
	"github.com/helicon-ai/relay/providers/observability"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// errorBodyPreviewLen caps the response body captured into a StatusError.
const errorBodyPreviewLen = 2048

// Client issues provider requests with rate limiting and retries applied
// before dispatch. The zero-option client works out of the box:
// http.DefaultClient, default retry policy, no rate limiting.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Keyed
	retry      RetryPolicy
	logger     *slog.Logger
	baseURL    string
	header     http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client used for outbound requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLimiter installs the keyed rate limiter consulted for requests that
// carry a RateLimitKey. Without one, rate limiting is disabled.
func WithLimiter(limiter *ratelimit.Keyed) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithRetryPolicy sets the client-wide retry policy. Individual requests can
// still override it via Request.Retry.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.retry = policy }
}

// WithLogger sets the slog logger for request/retry log entries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBaseURL sets the base URL that relative request URLs resolve against.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHeader adds a default header sent on every request, such as a
// pre-formed Authorization header supplied by the credential store.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// NewClient creates a Client with the given options applied over defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		retry:      DefaultRetryPolicy(),
		logger:     slog.Default(),
		header:     http.Header{},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = http.DefaultClient
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}

	return client
}

// Do issues the request and returns the response with its body open; the
// caller owns closing it. The rate-limit gate and the retry loop both run
// before any response is returned, so a returned response is always a 2xx.
//
// The rate-limit wait has no internal timeout: a refill rate too low for the
// demand blocks until the context is cancelled.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if req.RateLimitKey != "" && c.limiter != nil {
		waitTimer := utils.NewTimer()
		if err := c.limiter.Wait(ctx, req.RateLimitKey, 1); err != nil {
			return nil, fmt.Errorf("rate limit wait aborted for key %q: %w", req.RateLimitKey, err)
		}
		waitTimer.Stop()

		if span != nil {
			span.AddEvent(observability.EventRateLimitWaited,
				observability.String(observability.AttrRateLimitKey, req.RateLimitKey),
				observability.Duration(observability.AttrRateLimitWait, waitTimer.GetDuration()),
			)
		}
		if observer != nil {
			observer.Trace(ctx, "rate limit gate passed",
				observability.String(observability.AttrRateLimitKey, req.RateLimitKey),
				observability.Duration(observability.AttrRateLimitWait, waitTimer.GetDuration()),
			)
		}
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	if span != nil {
		span.AddEvent(observability.EventRequestPrepared,
			observability.String(observability.AttrHTTPMethod, req.Method),
			observability.String(observability.AttrHTTPURL, c.resolveURL(req.URL)),
			observability.Int(observability.AttrHTTPRequestBodySize, len(body)),
		)
	}
	if observer != nil {
		observer.Trace(ctx, "dispatching request",
			observability.String(observability.AttrHTTPURL, c.resolveURL(req.URL)),
			observability.Int(observability.AttrHTTPRequestBodySize, len(body)),
		)
	}

	policy := c.retry
	if req.Retry != nil {
		policy = *req.Retry
	}
	applyRetryDefaults(&policy)

	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := policy.Backoff(attempt - 1)

			if policy.OnRetry != nil {
				policy.OnRetry(RetryContext{
					Attempt: attempt - 1,
					LastErr: lastErr,
					Elapsed: time.Since(start),
				})
			}

			if span != nil {
				span.AddEvent(observability.EventRetryScheduled,
					observability.Int(observability.AttrRetryAttempt, attempt),
					observability.Duration(observability.AttrRetryBackoff, backoff),
					observability.Error(lastErr),
				)
			}

			c.logger.WarnContext(ctx, "retrying request",
				slog.String("url", c.resolveURL(req.URL)),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff),
				slog.String("error", lastErr.Error()),
			)

			// Respect context cancellation between attempts.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		response, attemptErr := c.attempt(ctx, req, body)
		if attemptErr == nil {
			return response, nil
		}

		lastErr = attemptErr

		if !policy.IsRetryable(attemptErr) {
			// Terminal failure, propagate immediately.
			return nil, attemptErr
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, policy.MaxAttempts, lastErr)
}

// attempt performs one network round trip. Non-2xx responses are drained,
// closed, and converted into a *StatusError so the body is never leaked to
// the retry loop.
func (c *Client) attempt(ctx context.Context, req Request, body []byte) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
		if body != nil {
			method = http.MethodPost
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.resolveURL(req.URL), reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	// Client defaults first, then per-request headers override on collision.
	for key, values := range c.header {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	timer := utils.NewTimer()
	response, err := c.httpClient.Do(httpReq)
	timer.Stop()

	span := observability.SpanFromContext(ctx)

	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventRequestError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPRequestDuration, timer.GetDuration()),
			)
		}
		return nil, fmt.Errorf("error sending request: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer utils.CloseWithLog(response.Body)

		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		preview := utils.TruncateString(string(errorBody), errorBodyPreviewLen)
		if readErr != nil {
			preview = fmt.Sprintf("(failed to read body: %v)", readErr)
		}

		statusErr := &StatusError{StatusCode: response.StatusCode, Body: preview}
		if span != nil {
			span.AddEvent(observability.EventRequestError,
				observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
				observability.Duration(observability.AttrHTTPRequestDuration, timer.GetDuration()),
			)
		}
		return nil, statusErr
	}

	if span != nil {
		span.AddEvent(observability.EventResponseReceived,
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration(observability.AttrHTTPRequestDuration, timer.GetDuration()),
		)
	}

	c.logger.DebugContext(ctx, "request completed",
		slog.String("method", method),
		slog.String("url", httpReq.URL.String()),
		slog.Int("status", response.StatusCode),
		slog.Duration("duration", timer.GetDuration()),
	)

	return response, nil
}

// resolveURL joins a relative request URL onto the client's base URL.
func (c *Client) resolveURL(url string) string {
	if c.baseURL == "" || strings.Contains(url, "://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return c.baseURL + url
}

// DoJSON issues the request, reads the full response body, and unmarshals it
// into Output. It is the buffered counterpart of [Stream]; the response body
// is always closed before returning.
func DoJSON[Output any](ctx context.Context, client *Client, req Request) (*Output, error) {
	response, err := client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer utils.CloseWithLog(response.Body)

	respBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var output Output
	if err := json.Unmarshal(respBody, &output); err != nil {
		return nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s",
			response.StatusCode, err, utils.TruncateStringDefault(string(respBody)))
	}

	return &output, nil
}
