// Package ratelimit implements token-bucket rate limiting for outbound
// provider requests.
//
// A [Bucket] throttles a single logical key: it holds up to Capacity tokens,
// refills continuously at RefillRate tokens per second, and lets an operation
// proceed only if it can debit the required tokens. A [Keyed] registry manages
// one independent Bucket per key (typically one per provider), created lazily
// on first use. [RedisKeyed] offers the same consume surface backed by Redis,
// for SDK processes that share a provider quota across replicas.
//
// Buckets never run a background refill task. Token balances are brought up
// to date against the clock at every access, so a bucket left idle for an
// arbitrary period still reports the correct balance on its next use.
//
// Time is sampled through the [Clock] interface so tests can drive a bucket
// with a simulated clock instead of sleeping.
package ratelimit
