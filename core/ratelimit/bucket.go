package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Config holds the tuning parameters for a token bucket. Zero values are
// replaced with the defaults documented on each field when the bucket is
// constructed.
type Config struct {
	// Capacity is the maximum number of tokens the bucket can hold, and
	// therefore the maximum burst it allows. Default: 1.
	Capacity float64

	// RefillRate is the number of tokens added per second of elapsed
	// wall-clock time, up to Capacity. Default: 1.
	RefillRate float64

	// InitialTokens sets the starting balance. When nil the bucket starts
	// full (Capacity tokens). Values outside [0, Capacity] are clamped.
	InitialTokens *float64

	// Clock supplies the current time. Default: [SystemClock].
	Clock Clock
}

func applyConfigDefaults(config *Config) {
	if config.Capacity <= 0 {
		config.Capacity = 1
	}
	if config.RefillRate <= 0 {
		config.RefillRate = 1
	}
	if config.Clock == nil {
		config.Clock = SystemClock()
	}
}

// Bucket is a single-key token bucket. Balances are fractional internally:
// a bucket refilling at 0.5 tokens/second accumulates half a token after one
// second. All methods are safe for concurrent use; interleaved refill and
// consume calls behave as if globally serialized.
type Bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	clock      Clock
}

// NewBucket creates a Bucket from config (see [Config] for defaults).
func NewBucket(config Config) *Bucket {
	applyConfigDefaults(&config)

	tokens := config.Capacity
	if config.InitialTokens != nil {
		tokens = min(max(*config.InitialTokens, 0), config.Capacity)
	}

	return &Bucket{
		capacity:   config.Capacity,
		refillRate: config.RefillRate,
		tokens:     tokens,
		lastRefill: config.Clock.Now(),
		clock:      config.Clock,
	}
}

// refillLocked brings the token balance up to date with the clock. It must be
// called with b.mu held, before every read or mutation of b.tokens. Calling
// it twice at the same instant is a no-op (elapsed = 0).
func (b *Bucket) refillLocked() {
	now := b.clock.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	}
	b.lastRefill = now
}

// TryConsume atomically debits n tokens and reports whether it succeeded.
// A failed attempt leaves the balance untouched.
func (b *Bucket) TryConsume(n float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()

	if b.tokens < n {
		return false
	}

	b.tokens -= n
	return true
}

// TimeUntil returns how long the caller must wait, from now, before n tokens
// could be consumed. It returns 0 when the bucket can already satisfy the
// request. The result is rounded up to the next millisecond.
func (b *Bucket) TimeUntil(n float64) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.timeUntilLocked(n)
}

func (b *Bucket) timeUntilLocked(n float64) time.Duration {
	b.refillLocked()

	if b.tokens >= n {
		return 0
	}

	millis := math.Ceil((n - b.tokens) / b.refillRate * 1000)
	return time.Duration(millis) * time.Millisecond
}

// Wait blocks until n tokens have been consumed or ctx is done. It sleeps for
// the computed time-to-availability between attempts rather than busy-looping.
// On cancellation it returns ctx.Err() without having consumed any tokens.
//
// Wait applies no deadline of its own: a refill rate too low for the demand
// blocks the caller indefinitely. Callers needing a bound must pass a context
// with a timeout.
func (b *Bucket) Wait(ctx context.Context, n float64) error {
	for {
		if b.TryConsume(n) {
			return nil
		}

		wait := b.TimeUntil(n)
		if wait <= 0 {
			// Another waiter took the tokens between our two calls; retry
			// immediately but yield to the scheduler via a minimal sleep.
			wait = time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Available refills and returns the current token balance. Fractional
// balances are returned as-is.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	return b.tokens
}

// Reset restores the bucket to a full balance and restarts refill accounting
// from now, regardless of prior state.
func (b *Bucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = b.capacity
	b.lastRefill = b.clock.Now()
}
