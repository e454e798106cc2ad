package httpclient

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls how failed requests are reattempted. Zero values are
// replaced with the defaults documented on each field before use, so the
// zero policy is a sensible default rather than "no retries".
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// MaxAttempts = 1 disables retries entirely. Default: 4 (one original
	// attempt plus three retries).
	MaxAttempts int

	// IsRetryable reports whether an error should trigger another attempt.
	// The default retries transport-level failures and [StatusError] codes
	// 429, 500, 502, 503, and 529; context cancellation is never retried.
	IsRetryable func(error) bool

	// Backoff returns the wait before the given retry (1-based: Backoff(1)
	// precedes the second attempt). Default: exponential starting at 1s,
	// doubling, capped at 30s, with 10% jitter.
	Backoff func(retry int) time.Duration

	// OnRetry, when set, observes each scheduled retry. It exists for
	// caller-side logging and test instrumentation; returning is the only
	// control flow.
	OnRetry func(RetryContext)
}

// RetryContext describes one scheduled retry for OnRetry hooks.
type RetryContext struct {
	// Attempt is the number of attempts completed so far (1 after the first
	// failure).
	Attempt int

	// LastErr is the error that triggered this retry.
	LastErr error

	// Elapsed is the wall-clock time since the first attempt started.
	Elapsed time.Duration
}

// retryableStatusCodes are the transient HTTP statuses worth reattempting:
// rate limiting and server-side failures, including Anthropic's 529.
var retryableStatusCodes = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	529: true,
}

// defaultIsRetryable classifies transport errors as retryable, status errors
// by code, and context cancellation as terminal.
func defaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return retryableStatusCodes[statusErr.StatusCode]
	}

	// Anything else was a transport-level failure (connection reset, DNS,
	// dial timeout): the request may never have reached the server.
	return true
}

// ExponentialBackoff returns a Backoff function computing
// min(initial * factor^(retry-1), max) plus random jitter in
// [0, jitterFraction * backoff].
func ExponentialBackoff(initial, maxBackoff time.Duration, factor, jitterFraction float64) func(int) time.Duration {
	return func(retry int) time.Duration {
		base := float64(initial) * math.Pow(factor, float64(retry-1))
		if base > float64(maxBackoff) {
			base = float64(maxBackoff)
		}

		jitter := base * jitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter is intentional
		return time.Duration(base + jitter)
	}
}

// DefaultRetryPolicy returns the policy used by a zero-configured Client.
func DefaultRetryPolicy() RetryPolicy {
	policy := RetryPolicy{}
	applyRetryDefaults(&policy)
	return policy
}

// applyRetryDefaults fills in zero-valued fields with the documented defaults.
func applyRetryDefaults(policy *RetryPolicy) {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 4
	}

	if policy.IsRetryable == nil {
		policy.IsRetryable = defaultIsRetryable
	}

	if policy.Backoff == nil {
		policy.Backoff = ExponentialBackoff(time.Second, 30*time.Second, 2.0, 0.1)
	}
}
