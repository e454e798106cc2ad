package ratelimit

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed token_bucket.lua
var tokenBucketScript string

// keyPrefix namespaces limiter state inside a shared Redis instance.
const keyPrefix = "relay:ratelimit:"

// RedisKeyed is a keyed token bucket whose state lives in Redis, so multiple
// SDK processes can share one provider quota. Refill and consume run inside a
// single Lua script, which makes each consume atomic across replicas.
//
// Unlike [Keyed], every method takes a context and can fail with a transport
// error; callers that cannot tolerate Redis unavailability should fall back
// to a local Keyed registry.
type RedisKeyed struct {
	client    *redis.Client
	scriptSHA string
	config    Config
}

// NewRedisKeyed verifies connectivity, loads the bucket script, and returns a
// registry whose buckets all use config. The Clock field of config is honored
// here as well: the script receives the sampled time as an argument, so a
// simulated clock drives Redis buckets exactly like local ones.
func NewRedisKeyed(client *redis.Client, config Config) (*RedisKeyed, error) {
	applyConfigDefaults(&config)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	sha, err := client.ScriptLoad(ctx, tokenBucketScript).Result()
	if err != nil {
		return nil, fmt.Errorf("loading token bucket script: %w", err)
	}

	return &RedisKeyed{
		client:    client,
		scriptSHA: sha,
		config:    config,
	}, nil
}

// eval runs the bucket script for key with the given cost and decodes the
// {allowed, tokens, retry_after} reply.
func (r *RedisKeyed) eval(ctx context.Context, key string, cost float64) (allowed bool, tokens float64, retryAfter time.Duration, err error) {
	now := float64(r.config.Clock.Now().UnixMicro()) / 1e6

	cmd := r.client.EvalSha(ctx, r.scriptSHA, []string{keyPrefix + key},
		r.config.RefillRate, // ARGV[1]
		r.config.Capacity,   // ARGV[2]
		now,                 // ARGV[3]
		cost,                // ARGV[4]
	)

	result, err := cmd.Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("token bucket script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, 0, errors.New("unexpected token bucket script reply shape")
	}

	allowedVal, _ := values[0].(int64)
	tokens = replyFloat(values[1])
	retryAfter = time.Duration(replyFloat(values[2]) * float64(time.Second))

	return allowedVal == 1, tokens, retryAfter, nil
}

// TryConsume atomically debits n tokens from key's bucket and reports whether
// it succeeded.
func (r *RedisKeyed) TryConsume(ctx context.Context, key string, n float64) (bool, error) {
	allowed, _, _, err := r.eval(ctx, key, n)
	return allowed, err
}

// Wait blocks until n tokens have been consumed from key's bucket, ctx is
// done, or Redis fails. Between attempts it sleeps for the retry-after hint
// computed by the script, never busy-looping faster than the refill allows.
func (r *RedisKeyed) Wait(ctx context.Context, key string, n float64) error {
	for {
		allowed, _, retryAfter, err := r.eval(ctx, key, n)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		if retryAfter <= 0 {
			retryAfter = time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}
	}
}

// Available returns key's current token balance without consuming anything.
func (r *RedisKeyed) Available(ctx context.Context, key string) (float64, error) {
	_, tokens, _, err := r.eval(ctx, key, 0)
	return tokens, err
}

// Reset deletes key's bucket state; the next use starts from a full bucket.
func (r *RedisKeyed) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

// replyFloat decodes a Lua script reply value that may arrive as an int64,
// float64, or string depending on how Redis serialized it.
func replyFloat(val interface{}) float64 {
	switch v := val.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
