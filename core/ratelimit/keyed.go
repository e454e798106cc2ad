package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Keyed manages one independent [Bucket] per string key, typically one per
// provider. Buckets are created lazily on first reference to a key, all with
// the same Config; the registry carries no per-key configuration.
//
// The registry mutex guards only the map. Token accounting is serialized by
// each Bucket's own mutex, so concurrent traffic on different keys never
// contends.
type Keyed struct {
	mu      sync.Mutex
	config  Config
	buckets map[string]*Bucket
}

// NewKeyed creates a Keyed registry whose buckets all use config.
func NewKeyed(config Config) *Keyed {
	applyConfigDefaults(&config)

	return &Keyed{
		config:  config,
		buckets: make(map[string]*Bucket),
	}
}

// bucket returns the Bucket for key, creating it on first use.
func (k *Keyed) bucket(key string) *Bucket {
	k.mu.Lock()
	defer k.mu.Unlock()

	b, ok := k.buckets[key]
	if !ok {
		b = NewBucket(k.config)
		k.buckets[key] = b
	}
	return b
}

// TryConsume atomically debits n tokens from key's bucket and reports whether
// it succeeded.
func (k *Keyed) TryConsume(key string, n float64) bool {
	return k.bucket(key).TryConsume(n)
}

// Wait blocks until n tokens have been consumed from key's bucket or ctx is
// done. See [Bucket.Wait] for cancellation and deadline semantics.
func (k *Keyed) Wait(ctx context.Context, key string, n float64) error {
	return k.bucket(key).Wait(ctx, n)
}

// TimeUntil returns the wait before n tokens could be consumed from key's
// bucket.
func (k *Keyed) TimeUntil(key string, n float64) time.Duration {
	return k.bucket(key).TimeUntil(n)
}

// Available returns key's current token balance, creating the bucket (full)
// if the key has never been used.
func (k *Keyed) Available(key string) float64 {
	return k.bucket(key).Available()
}

// Reset discards key's bucket entirely. The next use of the key recreates a
// fresh, full-capacity bucket. This is stronger than calling Reset on the
// bucket itself: any goroutine still holding the old bucket keeps its own
// accounting, while new callers through the registry start clean.
func (k *Keyed) Reset(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.buckets, key)
}

// ResetAll discards every bucket in the registry.
func (k *Keyed) ResetAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	clear(k.buckets)
}
