package ratelimit

import (
	"context"
	"testing"
	"time"
)

// TestKeyed_LazyCreation_StartsFull verifies that the first reference to a
// key creates a full bucket.
func TestKeyed_LazyCreation_StartsFull(t *testing.T) {
	keyed := NewKeyed(Config{Capacity: 5, RefillRate: 1, Clock: newFakeClock()})

	if available := keyed.Available("openai"); available != 5 {
		t.Errorf("expected fresh key to report full capacity, got %v", available)
	}
}

// TestKeyed_IndependentBucketsPerKey verifies that consumption on one key
// never affects another.
func TestKeyed_IndependentBucketsPerKey(t *testing.T) {
	keyed := NewKeyed(Config{Capacity: 5, RefillRate: 1, Clock: newFakeClock()})

	if !keyed.TryConsume("openai", 5) {
		t.Fatal("expected consume on fresh key to succeed")
	}

	if available := keyed.Available("anthropic"); available != 5 {
		t.Errorf("expected untouched key to stay full, got %v", available)
	}
	if available := keyed.Available("openai"); available != 0 {
		t.Errorf("expected drained key to be empty, got %v", available)
	}
}

// TestKeyed_Reset_RestoresFullCapacityForKey verifies the discard semantics:
// after Reset(key), the next use sees a fresh full bucket, and other keys are
// unaffected.
func TestKeyed_Reset_RestoresFullCapacityForKey(t *testing.T) {
	keyed := NewKeyed(Config{Capacity: 5, RefillRate: 1, Clock: newFakeClock()})

	keyed.TryConsume("openai", 5)
	keyed.TryConsume("anthropic", 2)

	keyed.Reset("openai")

	if available := keyed.Available("openai"); available != 5 {
		t.Errorf("expected reset key at full capacity, got %v", available)
	}
	if available := keyed.Available("anthropic"); available != 3 {
		t.Errorf("expected other key unaffected at 3 tokens, got %v", available)
	}
}

// TestKeyed_ResetAll_DiscardsEveryBucket verifies ResetAll restores every key.
func TestKeyed_ResetAll_DiscardsEveryBucket(t *testing.T) {
	keyed := NewKeyed(Config{Capacity: 5, RefillRate: 1, Clock: newFakeClock()})

	keyed.TryConsume("openai", 5)
	keyed.TryConsume("anthropic", 5)

	keyed.ResetAll()

	for _, key := range []string{"openai", "anthropic"} {
		if available := keyed.Available(key); available != 5 {
			t.Errorf("expected key %q at full capacity after ResetAll, got %v", key, available)
		}
	}
}

// TestKeyed_Wait_BlocksUntilRefill verifies that the registry's Wait routes
// through the per-key bucket's blocking consume.
func TestKeyed_Wait_BlocksUntilRefill(t *testing.T) {
	keyed := NewKeyed(Config{Capacity: 1, RefillRate: 100})
	keyed.TryConsume("openai", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := keyed.Wait(ctx, "openai", 1); err != nil {
		t.Fatalf("expected Wait to succeed after refill, got %v", err)
	}
}
